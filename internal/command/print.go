package command

import (
	"fmt"
	"strconv"

	"github.com/canberks/riotbroker/internal/sfe"
)

// Print reconstructs the canonical wire text for cmd, using each command's
// first (longest) alias. It is used for logging and for the command
// round-trip tests; the broker never echoes a command's own reconstructed
// text back to a peer.
func Print(cmd Command) string {
	switch c := cmd.(type) {
	case Subscribe:
		return "subscribe " + printExpr(c.Expr)
	case Unsubscribe:
		return "unsubscribe " + strconv.FormatUint(c.N, 10)
	case Trigger:
		return "trigger " + c.Evt + " " + printExpr(c.Expr)
	case TriggerBinary:
		return "triggerb " + strconv.FormatUint(c.Size, 10) + " " + c.Evt + " " + printExpr(c.Expr)
	case TriggerEmpty:
		return "triggere " + c.Evt + " " + printExpr(c.Expr)
	case TriggerCached:
		return "triggerc " + c.Evt + " " + strconv.FormatUint(c.ExprID, 10)
	case TriggerCachedBinary:
		return "triggercb " + strconv.FormatUint(c.Size, 10) + " " + c.Evt + " " + strconv.FormatUint(c.ExprID, 10)
	case TriggerCachedEmpty:
		return "triggerce " + c.Evt + " " + strconv.FormatUint(c.ExprID, 10)
	case TriggerCachedCachedData:
		return "triggerccd " + c.Evt + " " + strconv.FormatUint(c.ExprID, 10) + " " + strconv.FormatUint(c.DataID, 10)
	case Pause:
		return "pause"
	case Resume:
		return "resume"
	case Alive:
		return "alive"
	case KillMe:
		return "kill-me"
	case Echo:
		if c.State == nil {
			return "echo"
		}
		return "echo " + strconv.FormatBool(*c.State)
	case Execute:
		return "execute " + c.Line
	case ExecuteScript:
		return "script " + strconv.FormatUint(c.Size, 10)
	case ExecuteCached:
		return "executec " + strconv.FormatUint(c.ID, 10)
	case Store:
		return "store " + c.Line
	case StoreBinary:
		return "storeb " + strconv.FormatUint(c.Size, 10)
	case Release:
		return "release " + strconv.FormatUint(c.ID, 10)
	default:
		panic(fmt.Sprintf("command: Print: unhandled type %T", cmd))
	}
}

// printExpr prints an omitted trigger filter the same way it prints an
// explicit AlwaysTrue one: nothing. Both mean "matches everything".
func printExpr(e sfe.Expr) string {
	if e == nil {
		return sfe.Print(sfe.AlwaysTrue)
	}
	return sfe.Print(e)
}
