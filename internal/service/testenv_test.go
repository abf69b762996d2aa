package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kasetfair/booth-api/internal/domain"
	"github.com/kasetfair/booth-api/internal/repository"
	"github.com/kasetfair/booth-api/internal/repository/dao"
)

type testEnv struct {
	boothRepo      *repository.BoothRepository
	storeRepo      *repository.StoreRepository
	assignmentRepo *repository.AssignmentRepository

	booths      *BoothService
	lottery     *LotteryService
	assignments *AssignmentService
}

// newTestEnv wires the full dao -> repository -> service stack against an
// in-memory sqlite database unique to the test.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%v?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(db))

	boothRepo := repository.NewBoothRepository(dao.NewBoothDAO(db))
	storeRepo := repository.NewStoreRepository(dao.NewStoreDAO(db))
	assignmentRepo := repository.NewAssignmentRepository(dao.NewAssignmentDAO(db))

	return &testEnv{
		boothRepo:      boothRepo,
		storeRepo:      storeRepo,
		assignmentRepo: assignmentRepo,
		booths:         NewBoothService(boothRepo),
		lottery:        NewLotteryService(storeRepo, assignmentRepo),
		assignments:    NewAssignmentService(assignmentRepo, storeRepo),
	}
}

func (e *testEnv) seedStore(t *testing.T, name string, goodsType domain.GoodsType, storeType domain.StoreType, nisitIDs ...string) domain.Store {
	t.Helper()

	store, err := e.storeRepo.Create(context.Background(), domain.Store{
		Name:      name,
		GoodsType: goodsType,
		State:     domain.StoreStateValidated,
		Type:      storeType,
	})
	require.NoError(t, err)

	for _, nisitID := range nisitIDs {
		_, err = e.storeRepo.AddMember(context.Background(), domain.StoreMember{
			StoreID: store.ID,
			NisitID: nisitID,
			Name:    name + " member",
		})
		require.NoError(t, err)
	}

	return store
}
