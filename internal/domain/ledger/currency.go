package ledger

import (
	"strings"

	"github.com/sarafi/backend/internal/domain/shared"
)

// Currency is reference data for a tradable currency. The ledger only needs
// the code and the minor-unit precision that drives monetary rounding;
// rates, display names and flags live in the portal's CRUD layer.
type Currency struct {
	shared.BaseEntity
	Code      string `gorm:"type:varchar(10);not null;uniqueIndex" json:"code"`
	Name      string `gorm:"type:varchar(100);not null" json:"name"`
	Precision int32  `gorm:"not null;default:2" json:"precision"`
	Active    bool   `gorm:"not null;default:true" json:"active"`
}

// TableName returns the table name for GORM
func (Currency) TableName() string {
	return "currencies"
}

// NewCurrency creates a currency reference row
func NewCurrency(code, name string, precision int32) (*Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Currency code cannot be empty")
	}
	if precision < 0 || precision > 8 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Currency precision must be between 0 and 8")
	}
	return &Currency{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Precision:  precision,
		Active:     true,
	}, nil
}
