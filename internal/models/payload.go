package models

// Payload is the typed body of a structured conversion request. The concrete
// type fixes the format, so a request can never carry the wrong field for its tag.
type Payload interface {
	Format() InputFormat
	isPayload()
}

// TransactionsPayload carries a plain transaction list.
type TransactionsPayload struct {
	Transactions []TransactionItem
}

// PortfolioPayload carries a holding list.
type PortfolioPayload struct {
	Holdings []HoldingItem
}

// RawCSVPayload carries delimited text as pasted by the caller.
type RawCSVPayload struct {
	Content string
}

// StatementPayload carries transactions plus optional statement metadata.
type StatementPayload struct {
	Metadata     *StatementMetadata
	Transactions []TransactionItem
}

func (TransactionsPayload) Format() InputFormat { return FormatTransactions }
func (PortfolioPayload) Format() InputFormat    { return FormatPortfolio }
func (RawCSVPayload) Format() InputFormat       { return FormatRawCSV }
func (StatementPayload) Format() InputFormat    { return FormatStatement }

func (TransactionsPayload) isPayload() {}
func (PortfolioPayload) isPayload()    {}
func (RawCSVPayload) isPayload()       {}
func (StatementPayload) isPayload()    {}

// Envelope is the flat JSON request shape. Only the field matching Format is
// read; the others are ignored even when present.
type Envelope struct {
	Format       string             `json:"format"`
	Transactions []TransactionItem  `json:"transactions,omitempty"`
	Holdings     []HoldingItem      `json:"holdings,omitempty"`
	RawContent   string             `json:"rawContent,omitempty"`
	Metadata     *StatementMetadata `json:"metadata,omitempty"`
}

// FileUpload is an uploaded file, fully read into memory.
type FileUpload struct {
	Data        []byte
	Filename    string
	ContentType string
	Hint        string
}

// Result is the outcome of a successful conversion.
type Result struct {
	Markdown  string `json:"markdown"`
	Format    string `json:"format"`
	ItemCount int    `json:"itemCount"`
}
