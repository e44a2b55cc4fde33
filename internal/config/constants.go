package config

// SourceFileExt is the extension of serialized AST units produced by the front end.
const SourceFileExt = ".ast.yaml"

// SourceFileExtensions are all recognized unit extensions
var SourceFileExtensions = []string{".ast.yaml", ".ast.yml"}

// SettingsFileName is looked up in the working directory by the CLI.
const SettingsFileName = "opal.yaml"

// DefaultMaxDepth bounds evaluator recursion before ErrStackExhausted.
const DefaultMaxDepth = 10000

// DefaultEntryMethod is invoked when the settings do not name an entry point.
const DefaultEntryMethod = "main"

// Canonical member names synthesized by the AST builder for user overrides.
const (
	OperatorMemberPrefix = "__operator_"
	OperatorMemberSuffix = "__"
	IndexerGetMember     = "__indexer_get__"
	IndexerSetMember     = "__indexer_set__"
)

// OperatorMember returns the canonical member name of an operator overload,
// e.g. "add" -> "__operator_add__".
func OperatorMember(op string) string {
	return OperatorMemberPrefix + op + OperatorMemberSuffix
}

// Members every built-in composite object exposes.
const (
	LengthMember     = "length"
	GetMember        = "get"
	SetMember        = "set"
	ToStringMember   = "toString"
	EnumeratorMember = "enumerator"
	NextMember       = "next"
	CurrentMember    = "current"
	KeyMember        = "key"
	ValueMember      = "value"
	ThisName         = "this"
)

// Members of the object a catch clause receives for an internal fault.
const (
	FaultMessageMember     = "message"
	FaultMessageFullMember = "messageFull"
	FaultKindMember        = "kind"
)

// Built-in function names
const (
	PrintFuncName    = "print"
	WriteFuncName    = "write"
	ReadLineFuncName = "readLine"
	SleepFuncName    = "sleep"
	TypeOfFuncName   = "typeOf"
	ToStringFuncName = "toString"
)

// HostNamespace holds values an embedding host sets; units reach it with 'use host'.
const HostNamespace = "host"
