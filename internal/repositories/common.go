package repositories

import (
	stderrors "errors"

	"github.com/josepguedes/Projeto-2/pkg/errors"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page selects a 1-based page of results.
type Page struct {
	Number int
	Size   int
}

func (p Page) normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	n := p.normalized()
	return (n.Number - 1) * n.Size
}

func (p Page) Limit() int {
	return p.normalized().Size
}

// TotalPages for a result set of total rows.
func (p Page) TotalPages(total int64) int {
	size := int64(p.Limit())
	return int((total + size - 1) / size)
}

func paginate(p Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit())
	}
}

// translate maps gorm errors onto application errors.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.As(err); ok {
		return err
	}
	switch {
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return errors.NotFound(what + " not found")
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Conflict(what + " already exists")
	case stderrors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.Validation(what + " references a missing record")
	case stderrors.Is(err, gorm.ErrInvalidData):
		return errors.Validation("invalid " + what)
	}
	return errors.Internal(err, "failed to access "+what)
}
