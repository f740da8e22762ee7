package ports

import (
	"io"

	"chicuadrado/domain/dataset"
)

// DatasetReader parses an uploaded file into a Dataset.
// The format is taken from the extension of name.
type DatasetReader interface {
	Read(name string, src io.Reader) (*dataset.Dataset, error)
}
