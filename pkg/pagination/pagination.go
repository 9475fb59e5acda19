package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any page query can request.
	MaxLimit = 100
)

// Params holds page/limit pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta is the pagination block returned alongside every list payload.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Normalize clamps the params into their allowed ranges.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// BuildMeta derives the pagination block from a total row count.
func BuildMeta(params Params, total int64) Meta {
	n := params.Normalize()
	totalPages := int(total) / n.Limit
	if int(total)%n.Limit != 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}
	return Meta{
		Page:       n.Page,
		Limit:      n.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
