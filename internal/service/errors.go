package service

import (
	"errors"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/repository"
)

// storeError translates repository sentinels into the shared taxonomy.
// subject names the addressed row in user-facing messages.
func storeError(err error, subject string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(subject + " tidak ditemukan")
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Wrap(apperr.KindConflict, apperr.CodeValidation, subject+" sudah ada", err)
	case errors.Is(err, repository.ErrInUse):
		return apperr.Wrap(apperr.KindConflict, apperr.CodeInUse, subject+" masih digunakan", err)
	case errors.Is(err, repository.ErrInvalidReference):
		return apperr.Wrap(apperr.KindReferential, apperr.CodeValidation, "referensi "+subject+" tidak valid", err)
	}
	return apperr.Internal("gagal memproses "+subject, err)
}
