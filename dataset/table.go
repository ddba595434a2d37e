// Package dataset loads quantum-dot synthesis spreadsheets into a typed
// column table and turns them into the numeric matrices the models consume.
package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/preprocessing"
	qdErrors "github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/errors"
)

// ColumnKind は列の型種別
type ColumnKind int

const (
	// KindNumeric はfloat64として解釈された列
	KindNumeric ColumnKind = iota
	// KindCategorical は文字列カテゴリとして扱われる列
	KindCategorical
)

// Column はテーブルの1列。KindNumericならFloats、KindCategoricalならStringsが有効。
type Column struct {
	Name    string
	Kind    ColumnKind
	Floats  []float64
	Strings []string
}

// Table は列順を保持した表データ。Targetsは回帰対象の列名。
type Table struct {
	Columns []Column
	NRows   int
	Targets []string
}

// Encode はカテゴリカル列をone-hotの指示列に展開した新しいTableを返す
//
// 各カテゴリカル列は、ソート済みの各ユニーク値に対応する
// `{列名}_{値}` という名前の数値列に置き換えられる。列の位置は維持される。
func (t *Table) Encode() (*Table, error) {
	encoded := &Table{
		NRows:   t.NRows,
		Targets: t.Targets,
	}

	for _, col := range t.Columns {
		if col.Kind == KindNumeric {
			encoded.Columns = append(encoded.Columns, col)
			continue
		}

		data := make([][]string, t.NRows)
		for i, v := range col.Strings {
			data[i] = []string{v}
		}

		enc := preprocessing.NewOneHotEncoder()
		indicator, err := enc.FitTransform(data)
		if err != nil {
			return nil, qdErrors.Wrapf(err, "dataset: encoding column %q", col.Name)
		}

		names := enc.GetFeatureNamesOut([]string{col.Name})
		_, nOut := indicator.Dims()
		for j := 0; j < nOut; j++ {
			floats := make([]float64, t.NRows)
			for i := 0; i < t.NRows; i++ {
				floats[i] = indicator.At(i, j)
			}
			encoded.Columns = append(encoded.Columns, Column{
				Name:   names[j],
				Kind:   KindNumeric,
				Floats: floats,
			})
		}
	}

	return encoded, nil
}

// Features は全ターゲット列を除いた特徴量行列と、指定ターゲットのラベルベクトルを返す
//
// Encode済みのTable（数値列のみ）に対して呼ぶこと。
func (t *Table) Features(target string) (*mat.Dense, *mat.VecDense, error) {
	if !t.isTarget(target) {
		return nil, nil, qdErrors.NewValueError("Table.Features",
			fmt.Sprintf("unknown target column %q", target))
	}

	var featureCols []Column
	var yCol *Column
	for i := range t.Columns {
		col := &t.Columns[i]
		if col.Kind == KindCategorical {
			return nil, nil, qdErrors.NewValueError("Table.Features",
				fmt.Sprintf("column %q is categorical; call Encode first", col.Name))
		}
		if col.Name == target {
			yCol = col
			continue
		}
		if t.isTarget(col.Name) {
			continue
		}
		featureCols = append(featureCols, *col)
	}

	if yCol == nil {
		return nil, nil, qdErrors.NewValueError("Table.Features",
			fmt.Sprintf("target column %q not present", target))
	}
	if len(featureCols) == 0 {
		return nil, nil, qdErrors.NewModelError("Table.Features", "no feature columns", qdErrors.ErrEmptyData)
	}

	X := mat.NewDense(t.NRows, len(featureCols), nil)
	for j, col := range featureCols {
		for i := 0; i < t.NRows; i++ {
			X.Set(i, j, col.Floats[i])
		}
	}

	y := mat.NewVecDense(t.NRows, nil)
	for i := 0; i < t.NRows; i++ {
		y.SetVec(i, yCol.Floats[i])
	}

	return X, y, nil
}

// FeatureNames はターゲット列を除いた列名を列順で返す
func (t *Table) FeatureNames() []string {
	var names []string
	for _, col := range t.Columns {
		if t.isTarget(col.Name) {
			continue
		}
		names = append(names, col.Name)
	}
	return names
}

func (t *Table) isTarget(name string) bool {
	for _, tgt := range t.Targets {
		if tgt == name {
			return true
		}
	}
	return false
}
