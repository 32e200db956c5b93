package shopping

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/five82/shoplist/internal/item"
)

// Op identifies the kind of state transition a Command performs.
type Op int

const (
	OpAdd Op = iota
	OpRemove
	OpRename
	OpToggle
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	case OpToggle:
		return "toggle"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Command is one atomic state-transition request.
type Command struct {
	Op   Op
	Item item.Item // OpAdd
	ID   uuid.UUID // OpRemove, OpRename, OpToggle
	Name string    // OpRename
}

// AddCommand appends it to the list.
func AddCommand(it item.Item) Command { return Command{Op: OpAdd, Item: it} }

// RemoveCommand deletes every entry with id.
func RemoveCommand(id uuid.UUID) Command { return Command{Op: OpRemove, ID: id} }

// RenameCommand renames every entry with id.
func RenameCommand(id uuid.UUID, name string) Command {
	return Command{Op: OpRename, ID: id, Name: name}
}

// ToggleCommand flips the cart flag of every entry with id.
func ToggleCommand(id uuid.UUID) Command { return Command{Op: OpToggle, ID: id} }

// Apply returns the list that results from running cmd against list. The
// input is never modified. Commands that match nothing return an equal copy.
func Apply(list []item.Item, cmd Command) []item.Item {
	switch cmd.Op {
	case OpAdd:
		out := make([]item.Item, 0, len(list)+1)
		out = append(out, list...)
		return append(out, cmd.Item)
	case OpRemove:
		out := make([]item.Item, 0, len(list))
		for _, it := range list {
			if it.ID != cmd.ID {
				out = append(out, it)
			}
		}
		return out
	case OpRename:
		return mapMatching(list, cmd.ID, func(it item.Item) item.Item { return it.WithName(cmd.Name) })
	case OpToggle:
		return mapMatching(list, cmd.ID, item.Item.Toggled)
	default:
		return item.Clone(list)
	}
}

func mapMatching(list []item.Item, id uuid.UUID, fn func(item.Item) item.Item) []item.Item {
	out := make([]item.Item, len(list))
	for idx, it := range list {
		if it.ID == id {
			it = fn(it)
		}
		out[idx] = it
	}
	return out
}
