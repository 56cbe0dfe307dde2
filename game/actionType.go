package game

import (
	"castle/utils"
	"fmt"
)

// ActionType represents the type of action an agent can perform.
type ActionType int

const (
	MoveAction ActionType = iota
	BuildAction
	DestroyAction
	StayAction
)

func (t ActionType) String() string {
	switch t {
	case MoveAction:
		return "Move"
	case BuildAction:
		return "Build"
	case DestroyAction:
		return "Destroy"
	case StayAction:
		return "Stay"
	}
	return fmt.Sprintf("ActionType(%d)", int(t))
}

// Direction is one of the eight neighbour offsets.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
	UpLeft
	UpRight
	DownLeft
	DownRight
)

var directionNames = [...]string{"U", "D", "L", "R", "UL", "UR", "DL", "DR"}

var directionOffsets = [...]Coord{
	Up:        {-1, 0},
	Down:      {1, 0},
	Left:      {0, -1},
	Right:     {0, 1},
	UpLeft:    {-1, -1},
	UpRight:   {-1, 1},
	DownLeft:  {1, -1},
	DownRight: {1, 1},
}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Offset returns the (row, col) delta of the direction.
func (d Direction) Offset() Coord {
	return directionOffsets[d]
}

// Directions available per action type, in index order.
var (
	moveDirections    = [NumMoveActions]Direction{Up, Down, Left, Right, UpLeft, UpRight, DownLeft, DownRight}
	buildDirections   = [NumBuildActions]Direction{Up, Down, Left, Right}
	destroyDirections = [NumDestroyActions]Direction{Up, Down, Left, Right}
)

// Sizes of the action space.
const (
	NumMoveActions    = 8
	NumBuildActions   = 4
	NumDestroyActions = 4
	NumActions        = NumMoveActions + NumBuildActions + NumDestroyActions + 1
)

// Action is a decoded action index. Dir is meaningless for StayAction.
type Action struct {
	Type ActionType
	Dir  Direction
}

func (a Action) String() string {
	if a.Type == StayAction {
		return "Stay"
	}
	return a.Type.String() + "(" + a.Dir.String() + ")"
}

// DecodeAction maps an index to its action by contiguous ranges.
// ok is false when the index is outside [0, NumActions).
func DecodeAction(index int) (action Action, ok bool) {
	if index < 0 || index >= NumActions {
		return Action{}, false
	}
	if index < len(moveDirections) {
		return Action{Type: MoveAction, Dir: moveDirections[index]}, true
	}
	index -= len(moveDirections)
	if index < len(buildDirections) {
		return Action{Type: BuildAction, Dir: buildDirections[index]}, true
	}
	index -= len(buildDirections)
	if index < len(destroyDirections) {
		return Action{Type: DestroyAction, Dir: destroyDirections[index]}, true
	}
	return Action{Type: StayAction}, true
}

// Index is the inverse of DecodeAction. It returns -1 for actions outside the space,
// such as Build(UL).
func (a Action) Index() int {
	base := 0
	switch a.Type {
	case MoveAction:
		if i := utils.FindIndex(moveDirections[:], a.Dir); i >= 0 {
			return i
		}
		return -1
	case BuildAction:
		base = len(moveDirections)
		if i := utils.FindIndex(buildDirections[:], a.Dir); i >= 0 {
			return base + i
		}
		return -1
	case DestroyAction:
		base = len(moveDirections) + len(buildDirections)
		if i := utils.FindIndex(destroyDirections[:], a.Dir); i >= 0 {
			return base + i
		}
		return -1
	case StayAction:
		return NumActions - 1
	}
	return -1
}

// AllActions lists every action in index order.
func AllActions() []Action {
	actions := make([]Action, 0, NumActions)
	for i := 0; i < NumActions; i++ {
		a, _ := DecodeAction(i)
		actions = append(actions, a)
	}
	return actions
}
