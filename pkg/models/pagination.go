package models

// PaginationParams are caller-supplied paging bounds. Zero values are
// replaced by defaults in Normalize.
type PaginationParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

// Normalize clamps parameters into their valid ranges: page >= 1,
// page_size in [1, 1000], defaulting to page 1 of 100.
func (p PaginationParams) Normalize() PaginationParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

// PageInfo describes the slice of a row set returned to the caller.
type PageInfo struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// Paginate slices rows according to params. The requested page is clamped
// to the last available page so callers never receive an empty page for an
// overshoot.
func Paginate(rows []Row, params PaginationParams) ([]Row, PageInfo) {
	params = params.Normalize()

	total := len(rows)
	totalPages := (total + params.PageSize - 1) / params.PageSize

	page := params.Page
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if totalPages == 0 {
		page = 1
	}

	start := (page - 1) * params.PageSize
	end := start + params.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return rows[start:end], PageInfo{
		Total:      total,
		Page:       page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}
}
