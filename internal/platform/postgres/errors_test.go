package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askriger/todostore/internal/store"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		err           error
		expectedError error
	}{
		{
			name:          "nil_error",
			err:           nil,
			expectedError: nil,
		},
		{
			name:          "sql_no_rows",
			err:           sql.ErrNoRows,
			expectedError: store.ErrNotFound,
		},
		{
			name:          "wrapped_sql_no_rows",
			err:           fmt.Errorf("scan: %w", sql.ErrNoRows),
			expectedError: store.ErrNotFound,
		},
		{
			name:          "check_violation",
			err:           &pgconn.PgError{Code: checkViolationCode, ConstraintName: "tasks_description_check"},
			expectedError: store.ErrInvalidEntity,
		},
		{
			name:          "not_null_violation",
			err:           &pgconn.PgError{Code: notNullViolationCode, ColumnName: "description"},
			expectedError: store.ErrInvalidEntity,
		},
		{
			name:          "connection_failure_is_storage_failure",
			err:           &pgconn.PgError{Code: "57P01", Message: "terminating connection"},
			expectedError: store.ErrStorageFailure,
		},
		{
			name:          "io_error_is_storage_failure",
			err:           errors.New("write tcp: broken pipe"),
			expectedError: store.ErrStorageFailure,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			mapped := MapError("task", "upsert", tc.err)

			if tc.expectedError == nil {
				assert.NoError(t, mapped)
				return
			}

			assert.ErrorIs(t, mapped, tc.expectedError)
			// The original error text must survive for debugging.
			assert.Contains(t, mapped.Error(), tc.err.Error())

			if errors.Is(tc.expectedError, store.ErrStorageFailure) {
				var storeErr *store.StoreError
				require.ErrorAs(t, mapped, &storeErr,
					"storage failures must carry entity and operation context")
				assert.Equal(t, "task", storeErr.Entity)
				assert.Equal(t, "upsert", storeErr.Operation)
			}
		})
	}
}
