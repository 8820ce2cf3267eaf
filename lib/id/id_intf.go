package id

// Gen generates the next number key.
type Gen func() uint64

// Pattern names the order in which a Gen yields its keys.
type Pattern string

const (
	Sequential Pattern = "sequential"
	Descending Pattern = "descending"
	Random     Pattern = "random"
)
