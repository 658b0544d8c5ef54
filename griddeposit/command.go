// Package griddeposit translates a DRAM command into the grid cells it
// touches and deposits its event energy into a powermap.Maps, grounded
// on original_source/src/thermal.cc's LocationMappingANDaddEnergy{,_RF}
// and UpdatePower's energy-table dispatch.
package griddeposit

import "github.com/sarchlab/dramthermal/addrmap"

// CmdType enumerates the command kinds spec.md §3 names. It is a closed
// enum with an exhaustive switch at the one dispatch site (DepositCommand)
// per spec.md §9's REDESIGN note: any value outside this set reaching
// dispatch is an InvariantViolation, not a silently-ignored default.
type CmdType int

const (
	Read CmdType = iota
	ReadPrecharge
	Write
	WritePrecharge
	Activate
	Precharge
	Refresh
	RefreshBank
	SelfRefreshEnter
	SelfRefreshExit
)

func (c CmdType) String() string {
	switch c {
	case Read:
		return "READ"
	case ReadPrecharge:
		return "READ_PRECHARGE"
	case Write:
		return "WRITE"
	case WritePrecharge:
		return "WRITE_PRECHARGE"
	case Activate:
		return "ACTIVATE"
	case Precharge:
		return "PRECHARGE"
	case Refresh:
		return "REFRESH"
	case RefreshBank:
		return "REFRESH_BANK"
	case SelfRefreshEnter:
		return "SELF_REFRESH_ENTER"
	case SelfRefreshExit:
		return "SELF_REFRESH_EXIT"
	default:
		return "UNKNOWN"
	}
}

// Command is a timed DRAM command targeting a single Address.
type Command struct {
	Type      CmdType
	Address   addrmap.Address
	ClkIssued uint64
}
