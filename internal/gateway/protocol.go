package gateway

import (
	"errors"
	"fmt"
	gomath "math"
	"strconv"
	"strings"
)

// Command and type markers of the py4j text protocol.
const (
	cmdCall        = "c"
	cmdConstructor = "i"
	cmdMemory      = "m"
	subMemoryDel   = "d"
	cmdEnd         = "e"

	typeInteger   = 'i'
	typeLong      = 'L'
	typeDouble    = 'd'
	typeBoolean   = 'b'
	typeString    = 's'
	typeReference = 'r'
	typeList      = 'l'
	typeNull      = 'n'
	typeVoid      = 'v'

	replyMarker  = '!'
	replySuccess = 'y'
	replyError   = 'x'
	replyFatal   = 'z'
)

// EntryPoint is the object id of the gateway's entry point.
const EntryPoint = "t"

// Errors returned by the protocol codec.
var (
	ErrProtocol       = errors.New("gateway: protocol error")
	ErrUnsupportedArg = errors.New("gateway: unsupported argument type")
)

// Ref is the id of an object living in the JVM.
type Ref string

// Kind is the type of a decoded value.
type Kind int

const (
	KindVoid Kind = iota
	KindNull
	KindInt
	KindLong
	KindDouble
	KindBool
	KindString
	KindRef
	KindList
)

// Value is a decoded return value.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Bool  bool
	Str   string
	Ref   Ref
}

// Float64 returns the value as a float, accepting any numeric kind.
func (v Value) Float64() (float64, error) {
	switch v.Kind {
	case KindDouble:
		return v.Float, nil
	case KindInt, KindLong:
		return float64(v.Int), nil
	default:
		return 0, fmt.Errorf("%w: value of kind %d is not numeric", ErrProtocol, v.Kind)
	}
}

// JavaError reports an exception thrown on the JVM side.
type JavaError struct {
	Method  string
	Message string
	Fatal   bool
}

func (e *JavaError) Error() string {
	if e.Fatal {
		return fmt.Sprintf("gateway: fatal error calling %s: %s", e.Method, e.Message)
	}
	return fmt.Sprintf("gateway: %s raised: %s", e.Method, e.Message)
}

var escaper = strings.NewReplacer("\\", "\\\\", "\r", "\\r", "\n", "\\n")

func escape(s string) string {
	return escaper.Replace(s)
}

func unescape(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func formatDouble(f float64) string {
	switch {
	case gomath.IsNaN(f):
		return "NaN"
	case gomath.IsInf(f, 1):
		return "Infinity"
	case gomath.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatInt(n int64) string {
	if n >= gomath.MinInt32 && n <= gomath.MaxInt32 {
		return string(typeInteger) + strconv.FormatInt(n, 10)
	}
	return string(typeLong) + strconv.FormatInt(n, 10)
}

// encodeArg renders one argument as a command line (without the newline).
func encodeArg(a any) (string, error) {
	switch v := a.(type) {
	case nil:
		return string(typeNull), nil
	case bool:
		return string(typeBoolean) + strconv.FormatBool(v), nil
	case int:
		return formatInt(int64(v)), nil
	case int8:
		return formatInt(int64(v)), nil
	case int16:
		return formatInt(int64(v)), nil
	case int32:
		return formatInt(int64(v)), nil
	case int64:
		return formatInt(v), nil
	case uint8:
		return formatInt(int64(v)), nil
	case uint16:
		return formatInt(int64(v)), nil
	case uint32:
		return formatInt(int64(v)), nil
	case float32:
		return string(typeDouble) + formatDouble(float64(v)), nil
	case float64:
		return string(typeDouble) + formatDouble(v), nil
	case string:
		return string(typeString) + escape(v), nil
	case Ref:
		return string(typeReference) + string(v), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedArg, a)
	}
}

func encodeCommand(head []string, args []any) ([]byte, error) {
	var b strings.Builder
	for _, h := range head {
		b.WriteString(h)
		b.WriteByte('\n')
	}
	for _, a := range args {
		part, err := encodeArg(a)
		if err != nil {
			return nil, err
		}
		b.WriteString(part)
		b.WriteByte('\n')
	}
	b.WriteString(cmdEnd)
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// EncodeCall builds a method call command on target.
func EncodeCall(target, method string, args ...any) ([]byte, error) {
	return encodeCommand([]string{cmdCall, target, method}, args)
}

// EncodeConstructor builds a constructor command for a JVM class.
func EncodeConstructor(class string, args ...any) ([]byte, error) {
	return encodeCommand([]string{cmdConstructor, class}, args)
}

// EncodeRelease builds a command that frees a JVM object reference.
func EncodeRelease(ref Ref) []byte {
	b, _ := encodeCommand([]string{cmdMemory, subMemoryDel, string(ref)}, nil)
	return b
}

// decodeValue parses a typed value such as "d1.5" or "ro12".
func decodeValue(s string) (Value, error) {
	if s == "" {
		return Value{}, fmt.Errorf("%w: empty value", ErrProtocol)
	}
	body := s[1:]
	switch s[0] {
	case typeVoid:
		return Value{Kind: KindVoid}, nil
	case typeNull:
		return Value{Kind: KindNull}, nil
	case typeInteger, typeLong:
		n, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: bad integer %q", ErrProtocol, body)
		}
		k := KindInt
		if s[0] == typeLong {
			k = KindLong
		}
		return Value{Kind: k, Int: n}, nil
	case typeDouble:
		f, err := parseDouble(body)
		if err != nil {
			return Value{}, fmt.Errorf("%w: bad double %q", ErrProtocol, body)
		}
		return Value{Kind: KindDouble, Float: f}, nil
	case typeBoolean:
		bv, err := strconv.ParseBool(strings.ToLower(body))
		if err != nil {
			return Value{}, fmt.Errorf("%w: bad boolean %q", ErrProtocol, body)
		}
		return Value{Kind: KindBool, Bool: bv}, nil
	case typeString:
		return Value{Kind: KindString, Str: unescape(body)}, nil
	case typeReference:
		return Value{Kind: KindRef, Ref: Ref(body)}, nil
	case typeList:
		return Value{Kind: KindList, Ref: Ref(body)}, nil
	default:
		return Value{}, fmt.Errorf("%w: unknown value type %q", ErrProtocol, s[0])
	}
}

func parseDouble(s string) (float64, error) {
	switch s {
	case "Infinity":
		return gomath.Inf(1), nil
	case "-Infinity":
		return gomath.Inf(-1), nil
	}
	return strconv.ParseFloat(s, 64)
}

// DecodeReply parses a reply line (without its trailing newline).
func DecodeReply(method, line string) (Value, error) {
	if len(line) < 2 || line[0] != replyMarker {
		return Value{}, fmt.Errorf("%w: unexpected reply %q", ErrProtocol, line)
	}
	payload := line[2:]
	switch line[1] {
	case replySuccess:
		return decodeValue(payload)
	case replyError, replyFatal:
		msg := payload
		if v, err := decodeValue(payload); err == nil && v.Kind == KindString {
			msg = v.Str
		}
		return Value{}, &JavaError{Method: method, Message: msg, Fatal: line[1] == replyFatal}
	default:
		return Value{}, fmt.Errorf("%w: unknown reply status %q", ErrProtocol, line[1])
	}
}
