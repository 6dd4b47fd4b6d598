package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"library-catalog/internals/models"
	"library-catalog/internals/repository"
)

// Loans run for three weeks; a renewal may push the due date out to
// at most four weeks from today.
const (
	LoanWeeks       = 3
	MaxRenewalWeeks = 4
)

var (
	ErrDateInPast = errors.New("invalid date - renewal in past")
	ErrDateTooFar = errors.New("invalid date - renewal more than 4 weeks ahead")
	ErrNotOnLoan  = errors.New("copy is not on loan")
	ErrNoCopy     = errors.New("no available copy")
)

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ProposedRenewalDate is the default offered to librarians on the renewal form.
func ProposedRenewalDate() time.Time {
	return today().AddDate(0, 0, 7*LoanWeeks)
}

// ValidateRenewalDate rejects dates in the past and dates more than
// four weeks from today.
func ValidateRenewalDate(dueBack time.Time) error {
	now := today()
	if dueBack.Before(now) {
		return ErrDateInPast
	}
	if dueBack.After(now.AddDate(0, 0, 7*MaxRenewalWeeks)) {
		return ErrDateTooFar
	}
	return nil
}

// RenewLoan writes a validated due date to one copy. The copy is looked
// up first so a missing record reports not-found whatever the date.
func RenewLoan(id uuid.UUID, dueBack time.Time) (*models.BookInstance, error) {
	instance, err := repository.GetInstanceByID(id)
	if err != nil {
		return nil, err
	}
	if err := ValidateRenewalDate(dueBack); err != nil {
		return nil, err
	}
	instance.DueBack = &dueBack
	if err := repository.SaveInstance(instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// BorrowCopy loans an available copy of the book to the user,
// due back three weeks from today.
func BorrowCopy(bookID uint, userID uint) (*models.BookInstance, error) {
	instance, err := repository.FirstAvailableCopy(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCopy
		}
		return nil, err
	}
	due := today().AddDate(0, 0, 7*LoanWeeks)
	instance.Status = models.StatusOnLoan
	instance.BorrowerID = &userID
	instance.DueBack = &due
	if err := repository.SaveInstance(instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// ReturnCopy marks a loaned copy available again.
func ReturnCopy(id uuid.UUID) (*models.BookInstance, error) {
	instance, err := repository.GetInstanceByID(id)
	if err != nil {
		return nil, err
	}
	if instance.Status != models.StatusOnLoan {
		return nil, ErrNotOnLoan
	}
	instance.Status = models.StatusAvailable
	instance.BorrowerID = nil
	instance.DueBack = nil
	if err := repository.SaveInstance(instance); err != nil {
		return nil, err
	}
	return instance, nil
}
