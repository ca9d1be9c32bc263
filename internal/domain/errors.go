package domain

import "fmt"

// CatalogLoadError reports a failed catalog fetch. It is recovered locally by
// rendering an inline message in place of the grid, never fatal to the page.
type CatalogLoadError struct {
	Status int
	Err    error
}

func (e *CatalogLoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog load failed with status %d", e.Status)
	}
	return fmt.Sprintf("catalog load failed: %v", e.Err)
}

func (e *CatalogLoadError) Unwrap() error {
	return e.Err
}

// OrderSubmissionError reports a failed checkout: non-success status,
// transport failure, or a business-rule rejection. Message carries the text
// shown to the customer.
type OrderSubmissionError struct {
	Status  int
	Message string
	Err     error
}

func (e *OrderSubmissionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("order submission failed with status %d", e.Status)
}

func (e *OrderSubmissionError) Unwrap() error {
	return e.Err
}
