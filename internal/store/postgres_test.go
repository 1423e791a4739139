package store

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vorn-digital/adlens/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return &PostgresStore{pool: mock}, mock
}

func TestPostgresStore_Query(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{"DeviceCategory", "Cost"}).
		AddRow("PC", 100.0).
		AddRow("Mobile", 200.0)
	mock.ExpectQuery(`SELECT DeviceCategory`).WillReturnRows(rows)

	table, err := s.Query(context.Background(),
		`SELECT DeviceCategory, SUM(Cost) AS Cost FROM report GROUP BY DeviceCategory`)
	require.NoError(t, err)

	require.Len(t, table.Columns, 2)
	assert.Equal(t, model.KindString, table.Columns[0].Kind)
	assert.Equal(t, model.KindFloat, table.Columns[1].Kind)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "PC", table.Rows[0][0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Query_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT broken`).
		WillReturnError(assert.AnError)

	_, err := s.Query(context.Background(), "SELECT broken FROM nowhere")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DistinctValues(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{"CampaignName"}).
		AddRow("Brand").
		AddRow("Summer Sale")
	mock.ExpectQuery(`SELECT DISTINCT CampaignName`).WillReturnRows(rows)

	values, err := s.DistinctValues(context.Background(), "ads.report_campaign", "CampaignName")
	require.NoError(t, err)
	assert.Equal(t, []string{"Brand", "Summer Sale"}, values)
	assert.NoError(t, mock.ExpectationsWereMet())
}
