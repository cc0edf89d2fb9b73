package service

import (
	"context"
	"errors"
	"strings"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/emzola/athenaeum/repository"
	"github.com/google/uuid"
)

type readers interface {
	CreateReader(ctx context.Context, requestBody dto.CreateReaderRequestBody) (*data.Reader, error)
	GetReader(ctx context.Context, readerID uuid.UUID) (*data.Reader, error)
	ListReaders(ctx context.Context, qs dto.QsListReaders) ([]*data.Reader, data.Metadata, error)
	UpdateReader(ctx context.Context, readerID uuid.UUID, requestBody dto.UpdateReaderRequestBody) (*data.Reader, error)
	DeleteReader(ctx context.Context, readerID uuid.UUID) error
}

const membershipIDAttempts = 3

// CreateReader service registers a new library member.
func (s *service) CreateReader(ctx context.Context, requestBody dto.CreateReaderRequestBody) (*data.Reader, error) {
	v := validator.New()
	v.Check(strings.TrimSpace(requestBody.FirstName) != "", "first_name", "must be provided")
	v.Check(strings.TrimSpace(requestBody.LastName) != "", "last_name", "must be provided")
	v.Check(strings.TrimSpace(requestBody.Email) != "", "email", "must be provided")
	v.Check(strings.TrimSpace(requestBody.Phone) != "", "phone", "must be provided")
	v.Check(requestBody.Address != nil, "address", "must be provided")
	v.Check(requestBody.DateOfBirth != "", "date_of_birth", "must be provided")
	v.Check(requestBody.MembershipType != "", "membership_type", "must be provided")
	if !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	email := strings.ToLower(strings.TrimSpace(requestBody.Email))
	phone := strings.TrimSpace(requestBody.Phone)
	if err := s.checkReaderConflict(ctx, uuid.Nil, s.repo.GetReaderByEmail, email, ErrDuplicateReader); err != nil {
		return nil, err
	}
	if err := s.checkReaderConflict(ctx, uuid.Nil, s.repo.GetReaderByPhone, phone, ErrDuplicateReader); err != nil {
		return nil, err
	}
	dateOfBirth, err := parseDate(requestBody.DateOfBirth)
	if err != nil {
		v.AddError("date_of_birth", "must be a date in YYYY-MM-DD format")
	}
	now := s.now()
	reader := &data.Reader{
		ID:                  uuid.New(),
		FirstName:           strings.TrimSpace(requestBody.FirstName),
		LastName:            strings.TrimSpace(requestBody.LastName),
		Email:               email,
		Phone:               phone,
		Address:             *requestBody.Address,
		DateOfBirth:         dateOfBirth,
		MembershipType:      requestBody.MembershipType,
		MembershipStartDate: now,
		IsActive:            true,
		BorrowedBooks:       data.BorrowEntries{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if reader.Address.Country == "" {
		reader.Address.Country = s.config.Readers.DefaultCountry
	}
	if requestBody.MembershipEndDate != nil && *requestBody.MembershipEndDate != "" {
		end, err := parseDate(*requestBody.MembershipEndDate)
		if err != nil {
			v.AddError("membership_end_date", "must be a date in YYYY-MM-DD format")
		}
		reader.MembershipEndDate = &end
	}
	if data.ValidateReader(v, reader); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	for attempt := 1; ; attempt++ {
		reader.MembershipID, err = data.GenerateMembershipID(now)
		if err != nil {
			return nil, err
		}
		err = s.repo.CreateReader(ctx, reader)
		if errors.Is(err, repository.ErrDuplicateMembershipID) && attempt < membershipIDAttempts {
			continue
		}
		break
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail), errors.Is(err, repository.ErrDuplicatePhone):
			return nil, ErrDuplicateReader
		default:
			return nil, persistenceFailure(err)
		}
	}
	s.sendMail(reader.Email, "reader_welcome.tmpl", map[string]any{
		"firstName":      reader.FirstName,
		"membershipID":   reader.MembershipID,
		"membershipType": reader.MembershipType,
	})
	return reader, nil
}

// GetReader service retrieves a reader.
func (s *service) GetReader(ctx context.Context, readerID uuid.UUID) (*data.Reader, error) {
	reader, err := s.repo.GetReader(ctx, readerID)
	if err != nil {
		return nil, persistenceFailure(err)
	}
	return reader, nil
}

// ListReaders service retrieves a paginated list of readers.
func (s *service) ListReaders(ctx context.Context, qs dto.QsListReaders) ([]*data.Reader, data.Metadata, error) {
	v := validator.New()
	data.ValidateFilters(v, qs.Filters)
	if qs.MembershipType != "" {
		v.Check(validator.In(qs.MembershipType, data.MembershipTypes...), "membership_type", "must be basic, premium or gold")
	}
	if !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	readers, metadata, err := s.repo.GetAllReaders(ctx, qs)
	if err != nil {
		return nil, data.Metadata{}, persistenceFailure(err)
	}
	return readers, metadata, nil
}

// UpdateReader service updates a reader. A changed e-mail or phone must be
// unused and well-formed; address fields are merged one by one.
func (s *service) UpdateReader(ctx context.Context, readerID uuid.UUID, requestBody dto.UpdateReaderRequestBody) (*data.Reader, error) {
	reader, err := s.repo.GetReader(ctx, readerID)
	if err != nil {
		return nil, persistenceFailure(err)
	}
	v := validator.New()
	if requestBody.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*requestBody.Email))
		if email != "" && email != reader.Email {
			if err := s.checkReaderConflict(ctx, reader.ID, s.repo.GetReaderByEmail, email, ErrDuplicateEmail); err != nil {
				return nil, err
			}
			if data.ValidateEmail(v, email); !v.Valid() {
				return nil, failedValidation(v.Errors)
			}
			reader.Email = email
		}
	}
	if requestBody.Phone != nil {
		phone := strings.TrimSpace(*requestBody.Phone)
		if phone != "" && phone != reader.Phone {
			if err := s.checkReaderConflict(ctx, reader.ID, s.repo.GetReaderByPhone, phone, ErrDuplicatePhone); err != nil {
				return nil, err
			}
			if data.ValidatePhone(v, phone); !v.Valid() {
				return nil, failedValidation(v.Errors)
			}
			reader.Phone = phone
		}
	}
	if requestBody.MembershipType != nil && *requestBody.MembershipType != "" && *requestBody.MembershipType != reader.MembershipType {
		if v.Check(validator.In(*requestBody.MembershipType, data.MembershipTypes...), "membership_type", "must be basic, premium or gold"); !v.Valid() {
			return nil, failedValidation(v.Errors)
		}
		reader.MembershipType = *requestBody.MembershipType
	}
	if requestBody.Address != nil {
		reader.Address = reader.Address.Merge(*requestBody.Address)
	}
	if requestBody.FirstName != nil && strings.TrimSpace(*requestBody.FirstName) != "" {
		reader.FirstName = strings.TrimSpace(*requestBody.FirstName)
	}
	if requestBody.LastName != nil && strings.TrimSpace(*requestBody.LastName) != "" {
		reader.LastName = strings.TrimSpace(*requestBody.LastName)
	}
	s.mergeReaderDates(v, reader, requestBody)
	if requestBody.IsActive != nil {
		reader.IsActive = *requestBody.IsActive
	}
	if requestBody.IsBlacklisted != nil {
		reader.IsBlacklisted = *requestBody.IsBlacklisted
	}
	if requestBody.BlacklistReason != nil {
		reader.BlacklistReason = *requestBody.BlacklistReason
	}
	reader.UpdatedAt = s.now()
	if data.ValidateReader(v, reader); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err = s.repo.UpdateReader(ctx, reader)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrDuplicateEmail
		case errors.Is(err, repository.ErrDuplicatePhone):
			return nil, ErrDuplicatePhone
		default:
			return nil, persistenceFailure(err)
		}
	}
	return reader, nil
}

func (s *service) mergeReaderDates(v *validator.Validator, reader *data.Reader, requestBody dto.UpdateReaderRequestBody) {
	if requestBody.DateOfBirth != nil && *requestBody.DateOfBirth != "" {
		dob, err := parseDate(*requestBody.DateOfBirth)
		if v.Check(err == nil, "date_of_birth", "must be a date in YYYY-MM-DD format"); err == nil {
			reader.DateOfBirth = dob
		}
	}
	if requestBody.MembershipStartDate != nil && *requestBody.MembershipStartDate != "" {
		start, err := parseDate(*requestBody.MembershipStartDate)
		if v.Check(err == nil, "membership_start_date", "must be a date in YYYY-MM-DD format"); err == nil {
			reader.MembershipStartDate = start
		}
	}
	if requestBody.MembershipEndDate != nil && *requestBody.MembershipEndDate != "" {
		end, err := parseDate(*requestBody.MembershipEndDate)
		if v.Check(err == nil, "membership_end_date", "must be a date in YYYY-MM-DD format"); err == nil {
			reader.MembershipEndDate = &end
		}
	}
}

// checkReaderConflict fails with dup when value already belongs to another reader.
func (s *service) checkReaderConflict(ctx context.Context, selfID uuid.UUID, get func(context.Context, string) (*data.Reader, error), value string, dup error) error {
	other, err := get(ctx, value)
	switch {
	case err == nil:
		if other.ID != selfID {
			return dup
		}
		return nil
	case errors.Is(err, repository.ErrRecordNotFound):
		return nil
	default:
		return persistenceFailure(err)
	}
}

// DeleteReader service deletes a reader who holds no unreturned books.
func (s *service) DeleteReader(ctx context.Context, readerID uuid.UUID) error {
	reader, err := s.repo.GetReader(ctx, readerID)
	if err != nil {
		return persistenceFailure(err)
	}
	if len(reader.Outstanding()) > 0 {
		return ErrOutstandingLoans
	}
	err = s.repo.DeleteReader(ctx, readerID)
	if err != nil {
		return persistenceFailure(err)
	}
	return nil
}
