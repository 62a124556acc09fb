package repository

import "time"

// ProductListFilter filters the product list query.
type ProductListFilter struct {
	Page          int
	PageSize      int
	SubcategoryID uint
	ImportBatchID uint
	Status        string
	Search        string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	WithValues    bool
}

// AttributeListFilter filters the attribute list query.
type AttributeListFilter struct {
	Page     int
	PageSize int
	Type     string
	Search   string
}

// SupplierListFilter filters the supplier list query.
type SupplierListFilter struct {
	Search        string
	SubcategoryID uint
	ActiveOnly    bool
}

// DataRequestListFilter filters the data request list query.
type DataRequestListFilter struct {
	Status     string
	SupplierID uint
	CategoryID uint
}

// ImportBatchListFilter filters the import batch list query.
type ImportBatchListFilter struct {
	Page          int
	PageSize      int
	SubcategoryID uint
	Source        string
}
