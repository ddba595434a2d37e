package dataset

import (
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	qdErrors "github.com/mehmetsiddik/Machine-Learning-Models-CsPbCI3-QDs/pkg/errors"
)

// Load はCSVファイルを読み込んでTableを構築する
//
// 数値として解釈できる列はKindNumeric、それ以外はKindCategoricalになる。
// targetsの各列は存在し、かつ数値列でなければならない。
func Load(path string, targets []string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, qdErrors.NewFileError(path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f)
	if df.Err != nil {
		return nil, qdErrors.NewFormatError(path, df.Err.Error())
	}
	if df.Nrow() == 0 {
		return nil, qdErrors.NewFormatError(path, "no data rows")
	}

	table := &Table{
		NRows:   df.Nrow(),
		Targets: targets,
	}

	names := df.Names()
	for _, name := range names {
		col := df.Col(name)
		switch col.Type() {
		case series.Int, series.Float:
			floats := col.Float()
			// 空セルや不正値はgotaがNaNにするので、ここで弾く
			if err := qdErrors.CheckValues("dataset.Load", floats); err != nil {
				return nil, qdErrors.NewFormatError(path,
					fmt.Sprintf("column %q contains non-finite values", name))
			}
			table.Columns = append(table.Columns, Column{
				Name:   name,
				Kind:   KindNumeric,
				Floats: floats,
			})
		default:
			table.Columns = append(table.Columns, Column{
				Name:    name,
				Kind:    KindCategorical,
				Strings: col.Records(),
			})
		}
	}

	// ターゲット列の存在と型を検証
	for _, target := range targets {
		found := false
		for _, col := range table.Columns {
			if col.Name != target {
				continue
			}
			found = true
			if col.Kind != KindNumeric {
				return nil, qdErrors.NewFormatError(path,
					fmt.Sprintf("target column %q is not numeric", target))
			}
		}
		if !found {
			return nil, qdErrors.NewFormatError(path,
				fmt.Sprintf("target column %q not found", target))
		}
	}

	return table, nil
}
