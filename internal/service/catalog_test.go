package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/models"
)

func TestCatalog_CreateNormalizesCode(t *testing.T) {
	store := newMemServices()
	svc := NewCatalogService(store, nil, zap.NewNop())

	s, err := svc.Create(context.Background(), models.CreateServiceRequest{Code: " ks ", Name: "Konsultasi Statistik"})

	require.NoError(t, err)
	assert.Equal(t, "KS", s.Code)
	assert.Equal(t, models.ServiceActive, s.Status)

	_, err = svc.Create(context.Background(), models.CreateServiceRequest{Code: "KS", Name: "Lain"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCatalog_CreateValidates(t *testing.T) {
	svc := NewCatalogService(newMemServices(), nil, zap.NewNop())

	_, err := svc.Create(context.Background(), models.CreateServiceRequest{Code: "K-S", Name: "x", Status: "ON"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCatalog_UpdatePartial(t *testing.T) {
	store := newMemServices(models.Service{ID: 1, Code: "KS", Name: "Konsultasi", Status: models.ServiceActive})
	svc := NewCatalogService(store, nil, zap.NewNop())

	s, err := svc.Update(context.Background(), 1, models.UpdateServiceRequest{Status: "INACTIVE"})
	require.NoError(t, err)
	assert.Equal(t, "KS", s.Code)
	assert.Equal(t, models.ServiceInactive, s.Status)

	active, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = svc.Update(context.Background(), 42, models.UpdateServiceRequest{Name: "x"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCatalog_DeleteInUse(t *testing.T) {
	store := newMemServices(models.Service{ID: 1, Code: "KS", Name: "Konsultasi", Status: models.ServiceActive})
	store.inUse[1] = true
	svc := NewCatalogService(store, nil, zap.NewNop())

	err := svc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, apperr.New(apperr.KindConflict, apperr.CodeInUse, ""))

	store.inUse[1] = false
	assert.NoError(t, svc.Delete(context.Background(), 1))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.Delete(context.Background(), 1)))
}
