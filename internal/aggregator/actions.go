package aggregator

import "github.com/pable/go-w3-metrics/internal/model"

const (
	rightClickOrder   = 0x03
	basicOrderMax     = 0x19
	abilityCastPrefix = '0'
)

// isRightClick reports whether the order bytes are the smart (right-click) order.
func isRightClick(b0, b1 byte) bool { return b0 == rightClickOrder && b1 == 0 }

// isBasic reports whether the order bytes are a basic command (move, attack,
// stop, hold, patrol...).
func isBasic(b0, b1 byte) bool { return b0 <= basicOrderMax && b1 == 0 }

// HandleAction classifies one action issued at gametime. Opcodes the
// aggregator does not know are ignored.
func (p *Player) HandleAction(a model.Action, gametime int) {
	switch a.ID {
	case model.ActionUnitOrderNoTarget:
		p.handleObjectOrder(a.ItemID, gametime)
	case model.ActionUnitOrderPoint:
		p.handlePointOrder(a.ItemID, gametime)
	case model.ActionUnitOrderObject, model.ActionUnitOrderTwoTargets:
		p.handleTargetOrder(a.ItemID)
	case model.ActionGiveItem:
		p.handleItemOrder()
	default:
		p.handleOther(a.ID)
	}
}

// handleObjectOrder handles 0x10: training, building, researching, buying and
// hero skill orders identified by an object id.
func (p *Player) handleObjectOrder(itemID model.ItemID, gametime int) {
	if itemID.Kind == model.ItemIDString && itemID.Code != "" {
		code := itemID.Code
		switch code[0] {
		case 'A':
			p.handleHeroSkill(code, gametime)
		case 'R':
			p.handleStringEncodedItemID(code, gametime)
		case 'u', 'e', 'h', 'o':
			if p.RaceDetected == model.RaceUnknown {
				p.detectRaceByActionID(code)
			}
			p.handleStringEncodedItemID(code, gametime)
		default:
			p.handleStringEncodedItemID(code, gametime)
		}
	}

	// Raw order ids carry no leading character and count as build/train.
	if itemID.Kind == model.ItemIDString && itemID.Code != "" && itemID.Code[0] == abilityCastPrefix {
		p.Actions.Ability++
	} else {
		p.Actions.BuildTrain++
	}
	p.currentlyTrackedAPM++
}

// handlePointOrder handles 0x11.
func (p *Player) handlePointOrder(itemID model.ItemID, gametime int) {
	p.currentlyTrackedAPM++
	if itemID.Kind == model.ItemIDAlphanumeric {
		if isBasic(itemID.Pair()) {
			p.Actions.Basic++
		} else {
			p.Actions.Ability++
		}
		return
	}
	p.handleStringEncodedItemID(itemID.Code, gametime)
}

// handleTargetOrder handles 0x12 and 0x14.
func (p *Player) handleTargetOrder(itemID model.ItemID) {
	b0, b1 := itemID.Pair()
	switch {
	case isRightClick(b0, b1):
		p.Actions.RightClick++
	case isBasic(b0, b1):
		p.Actions.Basic++
	default:
		p.Actions.Ability++
	}
	p.currentlyTrackedAPM++
}

// handleItemOrder handles 0x13.
func (p *Player) handleItemOrder() {
	p.Actions.Item++
	p.currentlyTrackedAPM++
}

// HandleSelection handles 0x16. countsAPM is decided by the caller, which can
// tell a manual selection from the reselection the client issues after a
// deselect.
func (p *Player) HandleSelection(selectMode int, countsAPM bool) {
	if !countsAPM {
		return
	}
	p.Actions.Select++
	p.currentlyTrackedAPM++
}

func (p *Player) handleOther(actionID byte) {
	switch actionID {
	case model.ActionAssignGroup:
		p.Actions.AssignGroup++
		p.currentlyTrackedAPM++
	case model.ActionSelectGroup:
		p.Actions.SelectHotkey++
		p.currentlyTrackedAPM++
	case model.ActionSelectGroundItem, model.ActionCancelHeroRevival,
		model.ActionEnterSkillSubmenu, model.ActionEnterBuildingSubmenu:
		p.currentlyTrackedAPM++
	case model.ActionRemoveFromQueue:
		p.Actions.RemoveUnit++
		p.currentlyTrackedAPM++
	case model.ActionEscape:
		p.Actions.Esc++
		p.currentlyTrackedAPM++
	}
}
