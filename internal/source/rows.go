package source

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/five82/gridview/internal/grid"
)

var errInvalidJSON = errors.New("invalid json")

// DecodeRows extracts the row objects at rowsPath from a JSON document.
func DecodeRows(data []byte, rowsPath string) ([]grid.Row, error) {
	if !gjson.ValidBytes(data) {
		return nil, errInvalidJSON
	}
	var result gjson.Result
	if rowsPath == "" {
		result = gjson.ParseBytes(data)
	} else {
		result = gjson.GetBytes(data, rowsPath)
	}
	if !result.Exists() || result.Type == gjson.Null {
		return nil, fmt.Errorf("rows path %q: %w", rowsPath, grid.ErrDataUnavailable)
	}
	if !result.IsArray() {
		return nil, fmt.Errorf("rows path %q: expected array, got %s", rowsPath, result.Type)
	}

	rows := make([]grid.Row, 0, len(result.Array()))
	var decodeErr error
	result.ForEach(func(key, value gjson.Result) bool {
		obj, ok := value.Value().(map[string]any)
		if !ok {
			decodeErr = fmt.Errorf("rows path %q: element %d is not an object", rowsPath, len(rows))
			return false
		}
		rows = append(rows, grid.Row(obj))
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return rows, nil
}
