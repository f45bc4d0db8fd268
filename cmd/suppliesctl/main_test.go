package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"supplies-backend/bootstrap"
	"supplies-backend/internal/config"
	"supplies-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// useSeededRuntime points the commands at an in-memory store holding two supplies, one
// of which has a projection that disagrees with its ledger.
func useSeededRuntime(t *testing.T) {
	prev := loadRuntime
	t.Cleanup(func() { loadRuntime = prev })
	loadRuntime = func() (*bootstrap.Runtime, error) {
		rt, err := bootstrap.Open(&config.Config{
			SQLitePath:        ":memory:",
			AutoMigrate:       true,
			LowStockThreshold: decimal.NewFromInt(10),
		})
		if err != nil {
			return nil, err
		}
		ctx := context.Background()
		for _, d := range []string{"Blue Thread", "Buttons"} {
			attrs, err := domain.NewSupplyAttributes(d, nil, nil, nil)
			require.NoError(t, err)
			_, err = rt.Services.Supplies.Create(ctx, attrs)
			require.NoError(t, err)
		}
		_, err = rt.Services.Ledger.ReceiveStock(ctx, 2, decimal.NewFromInt(40), "")
		require.NoError(t, err)
		require.NoError(t, rt.DB.Model(&domain.SupplyStock{}).Where("id_supply = ?", 1).Update("stock_actual", 3).Error)
		return rt, nil
	}
}

func run(t *testing.T, args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrate(t *testing.T) {
	useSeededRuntime(t)
	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied")
}

func TestLowStock(t *testing.T) {
	useSeededRuntime(t)
	out, err := run(t, "low-stock")
	require.NoError(t, err)
	assert.Contains(t, out, "Blue Thread")
	assert.NotContains(t, out, "Buttons")

	out, err = run(t, "low-stock", "--threshold", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "Buttons")

	_, err = run(t, "low-stock", "--threshold", "many")
	require.Error(t, err)
}

func TestLowStock_Xlsx(t *testing.T) {
	useSeededRuntime(t)
	path := filepath.Join(t.TempDir(), "low.xlsx")
	out, err := run(t, "low-stock", "--xlsx", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 1 rows")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Low Stock")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestReconcile(t *testing.T) {
	useSeededRuntime(t)
	out, err := run(t, "reconcile", "--json")
	require.NoError(t, err)

	var report struct {
		Checked       int `json:"checked"`
		Discrepancies []struct {
			SupplyID int64 `json:"id_supply"`
			Repaired bool  `json:"repaired"`
		} `json:"discrepancies"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Checked)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, int64(1), report.Discrepancies[0].SupplyID)
	assert.False(t, report.Discrepancies[0].Repaired)

	out, err = run(t, "reconcile", "--repair")
	require.NoError(t, err)
	assert.Contains(t, out, "checked 2 supplies, 1 out of sync")
}
