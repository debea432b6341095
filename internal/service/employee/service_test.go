package employee

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMRWERY/Employees-System-Management-ESM/internal/domain/employee"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/docstore"
)

func TestCreateAndGet(t *testing.T) {
	store := docstore.NewMemoryStore()
	svc := NewEmployeeService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, employee.CreateEmployeeRequest{
		UserID:       "user-1",
		EmployeeID:   "EMP-001",
		EmployeeName: "Jane Roe",
		Email:        "jane@example.com",
		Role:         "employee",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", created.ID)

	got, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "EMP-001", got.EmployeeID)
	assert.Equal(t, "Jane Roe", got.EmployeeName)
	assert.NotZero(t, got.CreatedAt)
}

func TestCreate_Validation(t *testing.T) {
	store := docstore.NewMemoryStore()
	svc := NewEmployeeService(store)

	_, err := svc.Create(context.Background(), employee.CreateEmployeeRequest{
		EmployeeName: "No User ID",
	})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), employee.CreateEmployeeRequest{
		UserID:       "user-1",
		EmployeeName: "Bad Email",
		Email:        "not-an-email",
	})
	assert.Error(t, err)
}

func TestGet_Unknown(t *testing.T) {
	store := docstore.NewMemoryStore()
	svc := NewEmployeeService(store)

	_, err := svc.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestList_SortedByName(t *testing.T) {
	store := docstore.NewMemoryStore()
	svc := NewEmployeeService(store)
	ctx := context.Background()

	for _, e := range []struct{ id, name string }{
		{"u1", "Carol"}, {"u2", "Alice"}, {"u3", "Bob"},
	} {
		_, err := svc.Create(ctx, employee.CreateEmployeeRequest{UserID: e.id, EmployeeName: e.name})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alice", list[0].EmployeeName)
	assert.Equal(t, "Bob", list[1].EmployeeName)
	assert.Equal(t, "Carol", list[2].EmployeeName)
}
