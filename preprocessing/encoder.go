package preprocessing

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/core/model"
	qdErrors "github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/errors"
)

// OneHotEncoder はカテゴリカルな文字列データを0/1のバイナリベクトルに変換する
type OneHotEncoder struct {
	model.BaseEstimator

	// Categories は各特徴量のカテゴリ一覧（ソート済み）
	Categories [][]string

	// CategoryToIdx は各特徴量のカテゴリ→インデックスマップ
	CategoryToIdx []map[string]int

	// NFeatures は入力特徴量数
	NFeatures int

	// NOutputs は出力特徴量数（全カテゴリの合計数）
	NOutputs int
}

// NewOneHotEncoder は新しいOneHotEncoderを作成する
func NewOneHotEncoder() *OneHotEncoder {
	return &OneHotEncoder{}
}

// sortedCategories は1列分のユニーク値を辞書順で返す
func sortedCategories(data [][]string, col int) []string {
	seen := make(map[string]struct{}, len(data))
	for _, row := range data {
		seen[row[col]] = struct{}{}
	}
	cats := make([]string, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// Fit は訓練データからカテゴリ情報を学習する
//
// カテゴリは辞書順にソートされ、変換後の列順を決定する。
func (e *OneHotEncoder) Fit(data [][]string) (err error) {
	defer qdErrors.Recover(&err, "OneHotEncoder.Fit")
	if len(data) == 0 {
		return qdErrors.NewModelError("OneHotEncoder.Fit", "empty data", qdErrors.ErrEmptyData)
	}
	nFeatures := len(data[0])
	if nFeatures == 0 {
		return qdErrors.NewModelError("OneHotEncoder.Fit", "empty features", qdErrors.ErrEmptyData)
	}
	for i, row := range data {
		if len(row) != nFeatures {
			return qdErrors.NewDimensionError("OneHotEncoder.Fit", nFeatures, len(row), i)
		}
	}

	e.NFeatures = nFeatures
	e.Categories = make([][]string, nFeatures)
	e.CategoryToIdx = make([]map[string]int, nFeatures)
	e.NOutputs = 0

	for j := 0; j < nFeatures; j++ {
		cats := sortedCategories(data, j)
		idx := make(map[string]int, len(cats))
		for k, c := range cats {
			idx[c] = k
		}
		e.Categories[j] = cats
		e.CategoryToIdx[j] = idx
		e.NOutputs += len(cats)
	}

	e.SetFitted()
	return nil
}

// Transform は学習済みのカテゴリ情報を使ってデータをone-hot encodingする
//
// 未知のカテゴリは全列0のベクトルになる。
func (e *OneHotEncoder) Transform(data [][]string) (_ mat.Matrix, err error) {
	defer qdErrors.Recover(&err, "OneHotEncoder.Transform")
	if !e.IsFitted() {
		return nil, qdErrors.NewNotFittedError("OneHotEncoder", "Transform")
	}
	if len(data) == 0 {
		return mat.NewDense(0, e.NOutputs, nil), nil
	}
	if len(data[0]) != e.NFeatures {
		return nil, qdErrors.NewDimensionError("OneHotEncoder.Transform", e.NFeatures, len(data[0]), 1)
	}

	out := mat.NewDense(len(data), e.NOutputs, nil)
	for i, row := range data {
		base := 0
		for j := 0; j < e.NFeatures; j++ {
			if k, ok := e.CategoryToIdx[j][row[j]]; ok {
				out.Set(i, base+k, 1.0)
			}
			base += len(e.Categories[j])
		}
	}
	return out, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (e *OneHotEncoder) FitTransform(data [][]string) (_ mat.Matrix, err error) {
	defer qdErrors.Recover(&err, "OneHotEncoder.FitTransform")
	if err := e.Fit(data); err != nil {
		return nil, err
	}
	return e.Transform(data)
}

// GetFeatureNamesOut は変換後の特徴量の名前を返す
//
// 入力特徴量名が["ligand"]でカテゴリが["oleic", "thiol"]の場合、
// 出力は["ligand_oleic", "ligand_thiol"]になる。
func (e *OneHotEncoder) GetFeatureNamesOut(inputFeatures []string) []string {
	if !e.IsFitted() {
		return nil
	}
	var names []string
	for j, cats := range e.Categories {
		name := fmt.Sprintf("x%d", j)
		if j < len(inputFeatures) {
			name = inputFeatures[j]
		}
		for _, c := range cats {
			names = append(names, fmt.Sprintf("%s_%s", name, c))
		}
	}
	return names
}
