package domain

import "strings"

// CommandKind tags the variant of a parsed input line.
type CommandKind int

const (
	CmdChat CommandKind = iota
	CmdGenerate
	CmdModel
	CmdCopy
	CmdShowLast
	CmdClear
	CmdHelp
	CmdQuit
	CmdExport
	CmdScore
	CmdImportURL
	CmdIcon
	CmdFeature
)

// Command is the typed result of parsing one input line. Exactly one variant
// is produced per line; it is constructed and consumed within one loop
// iteration.
type Command struct {
	Kind    CommandKind
	Content ContentKind // set for CmdGenerate
	Payload string      // keyword for CmdScore, subject for CmdIcon/CmdFeature, message for CmdChat
}

// parameterized prefixes, checked before the alias table. The payload keeps
// its original casing; an empty payload means the interactive form.
var paramPrefixes = []struct {
	prefix string
	kind   CommandKind
}{
	{"/score", CmdScore},
	{"/icon", CmdIcon},
	{"/feature", CmdFeature},
	{"/graphic", CmdFeature},
}

var aliasTable = map[string]Command{
	"/title":        {Kind: CmdGenerate, Content: KindTitle},
	"/subtitle":     {Kind: CmdGenerate, Content: KindSubtitle},
	"/sub":          {Kind: CmdGenerate, Content: KindSubtitle},
	"/description":  {Kind: CmdGenerate, Content: KindDescription},
	"/desc":         {Kind: CmdGenerate, Content: KindDescription},
	"/keywords":     {Kind: CmdGenerate, Content: KindKeywords},
	"/kw":           {Kind: CmdGenerate, Content: KindKeywords},
	"/release":      {Kind: CmdGenerate, Content: KindReleaseNotes},
	"/releasenotes": {Kind: CmdGenerate, Content: KindReleaseNotes},
	"/whatsnew":     {Kind: CmdGenerate, Content: KindReleaseNotes},
	"/promo":        {Kind: CmdGenerate, Content: KindPromoText},
	"/tagline":      {Kind: CmdGenerate, Content: KindPromoText},
	"/full":         {Kind: CmdGenerate, Content: KindFull},
	"/all":          {Kind: CmdGenerate, Content: KindFull},
	"/model":        {Kind: CmdModel},
	"/copy":         {Kind: CmdCopy},
	"/last":         {Kind: CmdShowLast},
	"/back":         {Kind: CmdShowLast},
	"/clear":        {Kind: CmdClear},
	"/cls":          {Kind: CmdClear},
	"/help":         {Kind: CmdHelp},
	"/h":            {Kind: CmdHelp},
	"/?":            {Kind: CmdHelp},
	"/quit":         {Kind: CmdQuit},
	"/q":            {Kind: CmdQuit},
	"/exit":         {Kind: CmdQuit},
	"/export":       {Kind: CmdExport},
	"/save":         {Kind: CmdExport},
	"/import":       {Kind: CmdImportURL},
	"/url":          {Kind: CmdImportURL},
}

// ParseCommand maps one raw input line to exactly one Command. Verbs are
// case-insensitive; payload text keeps its original casing. Unknown slash
// commands are not rejected: they fall through to the chat path and reach the
// backend as free-text feedback. That mirrors the original product behavior
// and is deliberate, if arguably surprising.
func ParseCommand(line string) Command {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)

	for _, p := range paramPrefixes {
		if lower == p.prefix {
			return Command{Kind: p.kind}
		}
		if strings.HasPrefix(lower, p.prefix+" ") {
			payload := strings.TrimSpace(trimmed[len(p.prefix)+1:])
			return Command{Kind: p.kind, Payload: payload}
		}
	}

	if cmd, ok := aliasTable[lower]; ok {
		return cmd
	}

	// Empty input is a no-op chat; everything else, slash-prefixed or not,
	// is treated as a natural-language message.
	return Command{Kind: CmdChat, Payload: trimmed}
}
