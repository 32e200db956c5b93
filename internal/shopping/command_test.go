package shopping

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/shoplist/internal/item"
)

var baseTime = time.Date(2025, 10, 8, 9, 30, 0, 0, time.UTC)

func mustItem(t *testing.T, name string) item.Item {
	t.Helper()
	it, err := item.New(name, baseTime)
	require.NoError(t, err)
	return it
}

func TestApply_Add(t *testing.T) {
	milk := mustItem(t, "Milk")
	eggs := mustItem(t, "Eggs")

	list := Apply(nil, AddCommand(milk))
	list = Apply(list, AddCommand(eggs))

	require.Len(t, list, 2)
	assert.Equal(t, milk.ID, list[0].ID)
	assert.Equal(t, eggs.ID, list[1].ID)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	milk := mustItem(t, "Milk")
	in := []item.Item{milk}

	_ = Apply(in, ToggleCommand(milk.ID))
	_ = Apply(in, RenameCommand(milk.ID, "Oat milk"))
	_ = Apply(in, RemoveCommand(milk.ID))

	require.Len(t, in, 1)
	assert.True(t, in[0].Equal(milk), "input changed: %#v", in[0])
}

func TestApply_UnknownIDIsNoOp(t *testing.T) {
	list := []item.Item{mustItem(t, "Milk"), mustItem(t, "Bread")}
	ghost := uuid.New()

	for _, cmd := range []Command{RemoveCommand(ghost), RenameCommand(ghost, "Tea"), ToggleCommand(ghost)} {
		got := Apply(list, cmd)
		assert.True(t, item.EqualLists(got, list), "%v changed the list", cmd.Op)
	}
}

func TestApply_DuplicateIDsAreAllAffected(t *testing.T) {
	milk := mustItem(t, "Milk")
	bread := mustItem(t, "Bread")
	list := []item.Item{milk, bread, milk}

	toggled := Apply(list, ToggleCommand(milk.ID))
	assert.True(t, toggled[0].OnCart)
	assert.False(t, toggled[1].OnCart)
	assert.True(t, toggled[2].OnCart)

	renamed := Apply(list, RenameCommand(milk.ID, "Oat milk"))
	assert.Equal(t, "Oat milk", renamed[0].Name)
	assert.Equal(t, "Bread", renamed[1].Name)
	assert.Equal(t, "Oat milk", renamed[2].Name)

	removed := Apply(list, RemoveCommand(milk.ID))
	require.Len(t, removed, 1)
	assert.Equal(t, bread.ID, removed[0].ID)
}

func TestApply_RenameKeepsIdentity(t *testing.T) {
	milk := mustItem(t, "Milk").Toggled()
	got := Apply([]item.Item{milk}, RenameCommand(milk.ID, "Oat milk"))

	require.Len(t, got, 1)
	assert.Equal(t, milk.ID, got[0].ID)
	assert.True(t, got[0].OnCart)
	assert.True(t, got[0].CreatedAt.Equal(milk.CreatedAt))
}

func TestOpString(t *testing.T) {
	tests := map[Op]string{
		OpAdd:    "add",
		OpRemove: "remove",
		OpRename: "rename",
		OpToggle: "toggle",
		Op(42):   "op(42)",
	}
	for op, want := range tests {
		if got := op.String(); got != want {
			t.Fatalf("Op(%d).String() = %q, want %q", int(op), got, want)
		}
	}
}
