package dataset

import (
	"bytes"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

type jsonLoader struct{}

func (jsonLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".json")
}

// Load reads a JSON array of row objects.
func (jsonLoader) Load(path string, opt LoadOptions) (*Dataset, error) {
	b, err := readFile(path)
	if err != nil {
		return nil, err
	}
	df := dataframe.ReadJSON(bytes.NewReader(b),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(MissingMarkers),
	)
	if opt.MaxRows > 0 && df.Err == nil && df.Nrow() > opt.MaxRows {
		idx := make([]int, opt.MaxRows)
		for i := range idx {
			idx[i] = i
		}
		df = df.Subset(idx)
	}
	return fromFrame(df)
}
