package db

import "fmt"

var (
	ErrNotFound = fmt.Errorf("caskdb: key not found")
	ErrClosed   = fmt.Errorf("caskdb: database closed")
)
