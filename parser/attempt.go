package parser

import (
	"errors"

	"github.com/pevans/techcrunch-parser/logger"
)

// errFieldEmpty marks a field that is simply not on the page.
var errFieldEmpty = errors.New("field not present")

// attempt runs a single field extractor and turns any failure into an
// absent value.
func attempt[T any](log *logger.Logger, field string, extract func() (T, error)) *T {
	value, err := extract()
	if errors.Is(err, errFieldEmpty) {
		log.Debug("field absent", "field", field)
		return nil
	}
	if err != nil {
		log.Warn("field extraction failed", "field", field, "error", err)
		return nil
	}
	return &value
}
