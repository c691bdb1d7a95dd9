package entity

import "time"

// FollowUpRecord is one row of the claims follow-up list.
// Columns holds the pasted spreadsheet cells keyed by header; the remaining
// fields are edited locally and survive re-imports.
type FollowUpRecord struct {
	PolicyNo    string            `json:"policyNo"`
	Columns     map[string]string `json:"columns"`
	Status      FollowUpStatus    `json:"status"`
	Agent       string            `json:"agent,omitempty"`
	AgentMobile string            `json:"agentMobile,omitempty"`
	CustomerNo  string            `json:"customerNo,omitempty"`
	CustomerOP  string            `json:"customerOP,omitempty"`
	Remarks     string            `json:"remarks,omitempty"`
	ImportedAt  time.Time         `json:"importedAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// FollowUpBook is the whole follow-up list: the header row of the latest
// import plus records in first-seen order.
type FollowUpBook struct {
	Headers []string                   `json:"headers"`
	Order   []string                   `json:"order"`
	Records map[string]*FollowUpRecord `json:"records"`
}

// NewFollowUpBook creates an empty book
func NewFollowUpBook() *FollowUpBook {
	return &FollowUpBook{
		Records: make(map[string]*FollowUpRecord),
	}
}

// Get returns the record for a policy number, or nil
func (b *FollowUpBook) Get(policyNo string) *FollowUpRecord {
	return b.Records[policyNo]
}

// Put inserts or replaces a record, appending new policies to the order
func (b *FollowUpBook) Put(rec *FollowUpRecord) {
	if b.Records == nil {
		b.Records = make(map[string]*FollowUpRecord)
	}
	if _, exists := b.Records[rec.PolicyNo]; !exists {
		b.Order = append(b.Order, rec.PolicyNo)
	}
	b.Records[rec.PolicyNo] = rec
}

// Remove deletes a record; returns false when it was not present
func (b *FollowUpBook) Remove(policyNo string) bool {
	if _, exists := b.Records[policyNo]; !exists {
		return false
	}
	delete(b.Records, policyNo)
	for i, p := range b.Order {
		if p == policyNo {
			b.Order = append(b.Order[:i], b.Order[i+1:]...)
			break
		}
	}
	return true
}

// List returns records in order
func (b *FollowUpBook) List() []*FollowUpRecord {
	out := make([]*FollowUpRecord, 0, len(b.Order))
	for _, p := range b.Order {
		if rec, ok := b.Records[p]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// Len returns the number of records
func (b *FollowUpBook) Len() int {
	return len(b.Records)
}

// Clone returns a deep copy of the record
func (r *FollowUpRecord) Clone() *FollowUpRecord {
	out := *r
	out.Columns = make(map[string]string, len(r.Columns))
	for k, v := range r.Columns {
		out.Columns[k] = v
	}
	return &out
}

// Clone returns a deep copy of the book
func (b *FollowUpBook) Clone() *FollowUpBook {
	out := &FollowUpBook{
		Headers: append([]string(nil), b.Headers...),
		Order:   append([]string(nil), b.Order...),
		Records: make(map[string]*FollowUpRecord, len(b.Records)),
	}
	for k, rec := range b.Records {
		out.Records[k] = rec.Clone()
	}
	return out
}
