package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treadstock/treadstock-backend/pkg/db/models"
	"github.com/treadstock/treadstock-backend/pkg/enums"
)

func seedRepoOrder(t *testing.T, repo *Repository, customer string, status enums.OrderStatus) *models.Order {
	t.Helper()

	price := decimal.NewFromInt(4500)
	product := &models.Product{Brand: "Michelin", Model: "X-Ice", Price: &price, Section: enums.SectionWinter, Active: true}
	require.NoError(t, repo.db.Create(product).Error)

	order := &models.Order{
		CustomerName: customer,
		Service:      enums.OrderServiceSale,
		Status:       status,
		Lines: []models.OrderLine{
			{ProductID: product.ID, Quantity: 2, Price: &price},
		},
	}
	created, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestRepositorySetStatusGuardsCurrentStatus(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	order := seedRepoOrder(t, repo, "Анна", enums.OrderStatusDraft)

	affected, err := repo.SetStatus(context.Background(), order.ID, enums.OrderStatusDraft, enums.OrderStatusProcessed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// A second flip from draft must lose: the row is already processed.
	affected, err = repo.SetStatus(context.Background(), order.ID, enums.OrderStatusDraft, enums.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Zero(t, affected)

	reloaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessed, reloaded.Status)
}

func TestRepositoryReplaceLines(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	order := seedRepoOrder(t, repo, "Борис", enums.OrderStatusDraft)
	require.Len(t, order.Lines, 1)

	newPrice := decimal.NewFromInt(9900)
	replacement := []models.OrderLine{
		{ProductID: order.Lines[0].ProductID, Quantity: 4, Price: &newPrice},
	}
	require.NoError(t, repo.ReplaceLines(context.Background(), order.ID, replacement))

	reloaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Lines, 1)
	assert.NotEqual(t, order.Lines[0].ID, reloaded.Lines[0].ID)
	assert.Equal(t, 4, reloaded.Lines[0].Quantity)
	require.NotNil(t, reloaded.Lines[0].Price)
	assert.True(t, reloaded.Lines[0].Price.Equal(newPrice))
}

func TestRepositoryListFiltersByStatus(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	seedRepoOrder(t, repo, "Анна", enums.OrderStatusDraft)
	seedRepoOrder(t, repo, "Борис", enums.OrderStatusProcessed)
	seedRepoOrder(t, repo, "Вера", enums.OrderStatusDraft)

	all, err := repo.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	// Newest first.
	assert.Equal(t, "Вера", all[0].CustomerName)

	draft := enums.OrderStatusDraft
	drafts, err := repo.List(context.Background(), &draft)
	require.NoError(t, err)
	assert.Len(t, drafts, 2)
	for _, order := range drafts {
		assert.Equal(t, enums.OrderStatusDraft, order.Status)
	}
}
