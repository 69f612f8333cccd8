package command

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/canberks/riotbroker/internal/sfe"
)

// Parse parses a single active-phase command line.
//
// Commands are tried in the order below, which matters: aliases for
// commands that take arguments are listed with a trailing space baked into
// the literal (except "s10n" and "execc", which carry none) and tried
// before the bare single-letter commands, with echo as the sole exception
// to that order (it is itself bare but conflicts with nothing tried after
// it). Without this ordering a longer command name would be
// swallowed by a shorter one that happens to be a prefix of it -- e.g.
// "release" would be claimed by "resume"'s bare "r" alias before "release"
// ever gets a chance, if resume were tried first.
func Parse(line string) (Command, error) {
	type attempt struct {
		lits []string
		fn   func(rest string) (Command, error)
	}

	attempts := []attempt{
		{[]string{"subscribe ", "subs ", "s10n", "s "}, parseSubscribe},
		{[]string{"unsubscribe ", "unsubs ", "usubs ", "us10n ", "us "}, parseUnsubscribe},
		{[]string{"trigger ", "trig ", "t "}, parseTrigger},
		{[]string{"triggerb ", "trigb ", "tb "}, parseTriggerBinary},
		{[]string{"triggere ", "trige ", "te ", "notify ", "notif ", "n "}, parseTriggerEmpty},
		{[]string{"triggerc ", "trigc ", "tc "}, parseTriggerCached},
		{[]string{"triggercb ", "trigcb ", "tcb "}, parseTriggerCachedBinary},
		{[]string{"triggerce ", "trigce ", "tce "}, parseTriggerCachedEmpty},
		{[]string{"triggerccd ", "trigccd ", "tccd "}, parseTriggerCachedCachedData},
		{[]string{"execute ", "exec ", "x "}, parseExecute},
		{[]string{"script ", "sc "}, parseExecuteScript},
		{[]string{"executec ", "execc", "xc "}, parseExecuteCached},
		{[]string{"store ", "st "}, parseStore},
		{[]string{"storeb ", "stb "}, parseStoreBinary},
		{[]string{"echo", "e"}, parseEcho},
		{[]string{"release ", "rl "}, parseRelease},
		{[]string{"pause", "p"}, parsePause},
		{[]string{"resume", "r"}, parseResume},
		{[]string{"alive", "idle", "a", "i"}, parseAlive},
		{[]string{"kill-me", "k"}, parseKillMe},
	}

	for _, a := range attempts {
		if rest, ok := matchAnyLit(line, a.lits); ok {
			return a.fn(rest)
		}
	}
	return nil, &ParseError{Line: line, Msg: "no command matched"}
}

func matchAnyLit(s string, lits []string) (rest string, ok bool) {
	t := trimLeftSpace(s)
	for _, lit := range lits {
		if strings.HasPrefix(t, lit) {
			return t[len(lit):], true
		}
	}
	return s, false
}

func trimLeftSpace(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

func requireConsumed(rest string) error {
	if trimLeftSpace(rest) != "" {
		return &ParseError{Line: rest, Msg: "unconsumed input"}
	}
	return nil
}

func parseIdentifier(s string) (ident, rest string, ok bool) {
	t := trimLeftSpace(s)
	i := 0
	for i < len(t) && isIdentByte(t[i]) {
		i++
	}
	if i == 0 {
		return "", s, false
	}
	return t[:i], t[i:], true
}

func isIdentByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_'
}

func parseSizeT(s string) (n uint64, rest string, ok bool) {
	t := trimLeftSpace(s)
	i := 0
	for i < len(t) && t[i] >= '0' && t[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, s, false
	}
	v, err := strconv.ParseUint(t[:i], 10, 64)
	if err != nil {
		return 0, s, false
	}
	return v, t[i:], true
}

// parseOptionalExpr parses the optional trailing SFE filter carried by the
// trigger family. An all-whitespace remainder means the filter was omitted
// (nil); anything else is parsed as a full outside-layer expression, and a
// parse error here is a genuine command error, not a signal to try the next
// command, just as it would be if the whole input were left unconsumed.
func parseOptionalExpr(s string) (sfe.Expr, error) {
	if trimLeftSpace(s) == "" {
		return nil, nil
	}
	return sfe.Parse(s)
}

func parseSubscribe(rest string) (Command, error) {
	if trimLeftSpace(rest) == "" {
		return nil, &ParseError{Line: rest, Msg: "subscribe requires an expression"}
	}
	expr, err := sfe.Parse(rest)
	if err != nil {
		return nil, err
	}
	return Subscribe{Expr: expr}, nil
}

func parseUnsubscribe(rest string) (Command, error) {
	n, rest, ok := parseSizeT(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "unsubscribe requires a subscription number"}
	}
	if err := requireConsumed(rest); err != nil {
		return nil, err
	}
	return Unsubscribe{N: n}, nil
}

func parseTrigger(rest string) (Command, error) {
	evt, rest, ok := parseIdentifier(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "trigger requires an event name"}
	}
	expr, err := parseOptionalExpr(rest)
	if err != nil {
		return nil, err
	}
	return Trigger{Evt: evt, Expr: expr}, nil
}

func parseTriggerBinary(rest string) (Command, error) {
	size, rest, ok := parseSizeT(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "triggerb requires a size"}
	}
	evt, rest, ok := parseIdentifier(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "triggerb requires an event name"}
	}
	expr, err := parseOptionalExpr(rest)
	if err != nil {
		return nil, err
	}
	return TriggerBinary{Size: size, Evt: evt, Expr: expr}, nil
}

func parseTriggerEmpty(rest string) (Command, error) {
	evt, rest, ok := parseIdentifier(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "triggere requires an event name"}
	}
	expr, err := parseOptionalExpr(rest)
	if err != nil {
		return nil, err
	}
	return TriggerEmpty{Evt: evt, Expr: expr}, nil
}

func parseTriggerCached(rest string) (Command, error) {
	evt, rest, ok := parseIdentifier(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "triggerc requires an event name"}
	}
	id, rest, ok := parseSizeT(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "triggerc requires a cached-expression id"}
	}
	if err := requireConsumed(rest); err != nil {
		return nil, err
	}
	return TriggerCached{Evt: evt, ExprID: id}, nil
}

func parseTriggerCachedBinary(rest string) (Command, error) {
	size, rest, ok := parseSizeT(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "triggercb requires a size"}
	}
	evt, rest, ok := parseIdentifier(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "triggercb requires an event name"}
	}
	id, rest, ok := parseSizeT(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "triggercb requires a cached-expression id"}
	}
	if err := requireConsumed(rest); err != nil {
		return nil, err
	}
	return TriggerCachedBinary{Size: size, Evt: evt, ExprID: id}, nil
}

func parseTriggerCachedEmpty(rest string) (Command, error) {
	evt, rest, ok := parseIdentifier(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "triggerce requires an event name"}
	}
	id, rest, ok := parseSizeT(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "triggerce requires a cached-expression id"}
	}
	if err := requireConsumed(rest); err != nil {
		return nil, err
	}
	return TriggerCachedEmpty{Evt: evt, ExprID: id}, nil
}

func parseTriggerCachedCachedData(rest string) (Command, error) {
	evt, rest, ok := parseIdentifier(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "triggerccd requires an event name"}
	}
	exprID, rest, ok := parseSizeT(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "triggerccd requires a cached-expression id"}
	}
	dataID, rest, ok := parseSizeT(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "triggerccd requires a cached-data id"}
	}
	if err := requireConsumed(rest); err != nil {
		return nil, err
	}
	return TriggerCachedCachedData{Evt: evt, ExprID: exprID, DataID: dataID}, nil
}

func parsePause(rest string) (Command, error) {
	if err := requireConsumed(rest); err != nil {
		return nil, err
	}
	return Pause{}, nil
}

func parseResume(rest string) (Command, error) {
	if err := requireConsumed(rest); err != nil {
		return nil, err
	}
	return Resume{}, nil
}

func parseAlive(rest string) (Command, error) {
	if err := requireConsumed(rest); err != nil {
		return nil, err
	}
	return Alive{}, nil
}

func parseKillMe(rest string) (Command, error) {
	if err := requireConsumed(rest); err != nil {
		return nil, err
	}
	return KillMe{}, nil
}

func parseEcho(rest string) (Command, error) {
	t := trimLeftSpace(rest)
	if t == "" {
		return Echo{}, nil
	}
	var state bool
	switch {
	case t == "true":
		state = true
	case t == "false":
		state = false
	default:
		return nil, &ParseError{Line: rest, Msg: "echo argument must be true or false"}
	}
	return Echo{State: &state}, nil
}

func parseExecute(rest string) (Command, error) {
	if rest == "" {
		return nil, &ParseError{Line: rest, Msg: "execute requires a line"}
	}
	return Execute{Line: rest}, nil
}

func parseExecuteScript(rest string) (Command, error) {
	size, rest, ok := parseSizeT(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "script requires a size"}
	}
	if err := requireConsumed(rest); err != nil {
		return nil, err
	}
	return ExecuteScript{Size: size}, nil
}

func parseExecuteCached(rest string) (Command, error) {
	id, rest, ok := parseSizeT(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "executec requires a cached-script id"}
	}
	if err := requireConsumed(rest); err != nil {
		return nil, err
	}
	return ExecuteCached{ID: id}, nil
}

func parseStore(rest string) (Command, error) {
	if rest == "" {
		return nil, &ParseError{Line: rest, Msg: "store requires a line"}
	}
	return Store{Line: rest}, nil
}

func parseStoreBinary(rest string) (Command, error) {
	size, rest, ok := parseSizeT(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "storeb requires a size"}
	}
	if err := requireConsumed(rest); err != nil {
		return nil, err
	}
	return StoreBinary{Size: size}, nil
}

func parseRelease(rest string) (Command, error) {
	id, rest, ok := parseSizeT(rest)
	if !ok {
		return nil, &ParseError{Line: rest, Msg: "release requires a storage id"}
	}
	if err := requireConsumed(rest); err != nil {
		return nil, err
	}
	return Release{ID: id}, nil
}
