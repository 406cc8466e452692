package pdfcpu

import (
	"bytes"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

type operandKind int

const (
	opNumber operandKind = iota
	opName
	opString
	opArray
)

// operand is one value preceding an operator in a content stream.
type operand struct {
	kind operandKind
	num  float64
	name string
	str  []byte
	arr  []operand
}

type tokenKind int

const (
	tokValue tokenKind = iota
	tokOperator
	tokArrayOpen
	tokArrayClose
	tokMark
)

type token struct {
	kind tokenKind
	op   string
	val  operand
}

// lexer splits PDF content and CMap streams into tokens. Line breaks carry
// no meaning: several operators may share a line.
type lexer struct {
	data []byte
	pos  int
}

func isSpace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (l *lexer) next() (token, bool) {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case isSpace(c):
			l.pos++
		case c == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
		case c == '(':
			l.pos++
			return token{kind: tokValue, val: operand{kind: opString, str: l.literal()}}, true
		case c == '<':
			if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
				l.pos += 2
				return token{kind: tokMark}, true
			}
			l.pos++
			return token{kind: tokValue, val: operand{kind: opString, str: l.hexString()}}, true
		case c == '>':
			l.pos++
			if l.pos < len(l.data) && l.data[l.pos] == '>' {
				l.pos++
			}
			return token{kind: tokMark}, true
		case c == '[':
			l.pos++
			return token{kind: tokArrayOpen}, true
		case c == ']':
			l.pos++
			return token{kind: tokArrayClose}, true
		case c == '{' || c == '}' || c == ')':
			l.pos++
			return token{kind: tokMark}, true
		case c == '/':
			l.pos++
			return token{kind: tokValue, val: operand{kind: opName, name: l.regular()}}, true
		default:
			word := l.regular()
			if n, err := strconv.ParseFloat(word, 64); err == nil {
				return token{kind: tokValue, val: operand{kind: opNumber, num: n}}, true
			}
			switch word {
			case "true", "false", "null":
				return token{kind: tokValue, val: operand{kind: opName, name: word}}, true
			}
			return token{kind: tokOperator, op: word}, true
		}
	}
	return token{}, false
}

func (l *lexer) regular() string {
	start := l.pos
	for l.pos < len(l.data) && !isSpace(l.data[l.pos]) && !isDelimiter(l.data[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

// literal reads a parenthesised string after its opening paren, honouring
// nested parens and escapes.
func (l *lexer) literal() []byte {
	start := l.pos
	depth := 1
	for l.pos < len(l.data) {
		switch l.data[l.pos] {
		case '\\':
			l.pos++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				raw := l.data[start:l.pos]
				l.pos++
				return decodeString(raw)
			}
		}
		l.pos++
	}
	return decodeString(l.data[start:min(l.pos, len(l.data))])
}

// hexString reads a hex string after its opening angle bracket. An odd
// final digit is padded with 0.
func (l *lexer) hexString() []byte {
	var digits []byte
	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		if c := l.data[l.pos]; isHexDigit(c) {
			digits = append(digits, c)
		}
		l.pos++
	}
	l.pos++
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	if _, err := hex.Decode(out, digits); err != nil {
		return nil
	}
	return out
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// skipInlineImage moves past inline image data following an ID operator.
func (l *lexer) skipInlineImage() {
	for i := l.pos; i+2 <= len(l.data); i++ {
		if l.data[i] != 'E' || l.data[i+1] != 'I' {
			continue
		}
		before := i == 0 || isSpace(l.data[i-1])
		after := i+2 == len(l.data) || isSpace(l.data[i+2])
		if before && after {
			l.pos = i + 2
			return
		}
	}
	l.pos = len(l.data)
}

// value completes tok into an operand, reading array elements when tok
// opens an array.
func (l *lexer) value(tok token) operand {
	if tok.kind != tokArrayOpen {
		return tok.val
	}
	arr := operand{kind: opArray}
	for {
		t, ok := l.next()
		if !ok || t.kind == tokArrayClose {
			return arr
		}
		if t.kind == tokOperator || t.kind == tokMark {
			continue
		}
		arr.arr = append(arr.arr, l.value(t))
	}
}

// scan calls fn for every operator with the operands preceding it. args
// is only valid for the duration of the call.
func scan(data []byte, fn func(op string, args []operand)) {
	l := &lexer{data: data}
	var args []operand
	for {
		tok, ok := l.next()
		if !ok {
			return
		}
		switch tok.kind {
		case tokOperator:
			if tok.op == "ID" {
				l.skipInlineImage()
			}
			fn(tok.op, args)
			args = args[:0]
		case tokValue, tokArrayOpen:
			args = append(args, l.value(tok))
		}
	}
}

// font decodes shown strings into text.
type font struct {
	// width is the number of bytes per character code.
	width int
	// unicode maps character codes to text via the font's ToUnicode CMap.
	unicode map[uint32]string
}

func (f *font) decode(b []byte) string {
	if f == nil || (f.width == 1 && len(f.unicode) == 0) {
		return latin1(b)
	}
	var sb strings.Builder
	for i := 0; i+f.width <= len(b); i += f.width {
		var code uint32
		for _, c := range b[i : i+f.width] {
			code = code<<8 | uint32(c)
		}
		if s, ok := f.unicode[code]; ok {
			sb.WriteString(s)
		} else if f.width == 1 {
			sb.WriteRune(rune(code))
		}
	}
	return sb.String()
}

func latin1(b []byte) string {
	rs := make([]rune, len(b))
	for i, c := range b {
		rs[i] = rune(c)
	}
	return string(rs)
}

// parseCMap reads the bfchar and bfrange mappings of a ToUnicode CMap. The
// code width comes from the codespace range, or from the source codes when
// the range is missing.
func parseCMap(data []byte, f *font) {
	if f.unicode == nil {
		f.unicode = make(map[uint32]string)
	}
	widthSet := false
	setWidth := func(src []byte) {
		if !widthSet && len(src) > 0 {
			f.width = len(src)
			widthSet = true
		}
	}

	scan(data, func(op string, args []operand) {
		switch op {
		case "endcodespacerange":
			if len(args) > 0 && args[0].kind == opString {
				setWidth(args[0].str)
			}
		case "endbfchar":
			for i := 0; i+1 < len(args); i += 2 {
				src, dst := args[i], args[i+1]
				if src.kind != opString || dst.kind != opString {
					continue
				}
				setWidth(src.str)
				f.unicode[codeOf(src.str)] = utf16Text(dst.str)
			}
		case "endbfrange":
			for i := 0; i+2 < len(args); i += 3 {
				lo, hi, dst := args[i], args[i+1], args[i+2]
				if lo.kind != opString || hi.kind != opString {
					continue
				}
				setWidth(lo.str)
				bfRange(f.unicode, codeOf(lo.str), codeOf(hi.str), dst)
			}
		}
	})
}

// maxRange bounds a single bfrange so a corrupt CMap cannot exhaust memory.
const maxRange = 1 << 16

func bfRange(m map[uint32]string, lo, hi uint32, dst operand) {
	if hi < lo || hi-lo > maxRange {
		return
	}
	switch dst.kind {
	case opArray:
		for i, d := range dst.arr {
			if d.kind == opString && lo+uint32(i) <= hi {
				m[lo+uint32(i)] = utf16Text(d.str)
			}
		}
	case opString:
		base := []rune(utf16Text(dst.str))
		if len(base) == 0 {
			return
		}
		for code := lo; code <= hi; code++ {
			rs := append([]rune(nil), base...)
			rs[len(rs)-1] += rune(code - lo)
			m[code] = string(rs)
			if code == math.MaxUint32 {
				return
			}
		}
	}
}

func codeOf(b []byte) uint32 {
	var code uint32
	for _, c := range b {
		code = code<<8 | uint32(c)
	}
	return code
}

func utf16Text(b []byte) string {
	if len(b)%2 == 1 {
		return latin1(b)
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	return string(utf16.Decode(units))
}

type breakKind int

const (
	breakNone breakKind = iota
	breakSpace
	breakLine
	breakParagraph
)

// Vertical moves are measured in font sizes: below lineFactor the text
// continues the line, above paragraphFactor it starts a new paragraph.
const (
	lineFactor      = 0.3
	paragraphFactor = 1.5

	// kernSpace is the TJ adjustment, in thousandths of an em, that reads
	// as a word gap.
	kernSpace = 200
)

// textWriter lays out shown strings as lines and paragraphs.
type textWriter struct {
	sb      strings.Builder
	pending breakKind
	fonts   map[string]*font
	font    *font
	size    float64
	scale   float64
	leading float64
	y       float64
	haveY   bool
}

func (w *textWriter) breakAt(k breakKind) {
	if k > w.pending {
		w.pending = k
	}
}

func (w *textWriter) show(b []byte) {
	text := w.font.decode(b)
	if text == "" {
		return
	}
	if w.sb.Len() > 0 {
		switch w.pending {
		case breakSpace:
			w.sb.WriteByte(' ')
		case breakLine:
			w.sb.WriteByte('\n')
		case breakParagraph:
			w.sb.WriteString("\n\n")
		}
	}
	w.pending = breakNone
	w.sb.WriteString(text)
}

// move records a vertical move of dy in units where the font size is size.
func (w *textWriter) move(dy, size float64) {
	if size <= 0 {
		size = 1
	}
	switch d := math.Abs(dy); {
	case d > paragraphFactor*size:
		w.breakAt(breakParagraph)
	case d > lineFactor*size:
		w.breakAt(breakLine)
	}
}

func (w *textWriter) nextLine() {
	if w.leading == 0 {
		w.breakAt(breakLine)
		return
	}
	w.move(w.leading, w.size)
}

func (w *textWriter) operator(op string, args []operand) {
	num := func(i int) float64 {
		if i < len(args) && args[i].kind == opNumber {
			return args[i].num
		}
		return 0
	}
	last := func() *operand {
		if len(args) == 0 {
			return nil
		}
		return &args[len(args)-1]
	}

	switch op {
	case "Tf":
		if len(args) >= 2 && args[0].kind == opName {
			w.font = w.fonts[args[0].name]
			if s := math.Abs(num(1)); s > 0 {
				w.size = s
			}
		}
	case "TL":
		w.leading = num(0)
	case "Td", "TD":
		if len(args) < 2 {
			return
		}
		tx, ty := num(0), num(1)
		if op == "TD" {
			w.leading = -ty
		}
		w.y += ty * w.scale
		w.move(ty, w.size)
		if math.Abs(ty) <= lineFactor*w.size && tx != 0 {
			w.breakAt(breakSpace)
		}
	case "Tm":
		if len(args) < 6 {
			return
		}
		if d := math.Abs(num(3)); d > 0 {
			w.scale = d
		}
		y := num(5)
		if w.haveY {
			w.move(w.y-y, w.size*w.scale)
		}
		w.y, w.haveY = y, true
	case "T*":
		w.nextLine()
	case "Tj":
		if a := last(); a != nil && a.kind == opString {
			w.show(a.str)
		}
	case "'", "\"":
		w.nextLine()
		if a := last(); a != nil && a.kind == opString {
			w.show(a.str)
		}
	case "TJ":
		a := last()
		if a == nil || a.kind != opArray {
			return
		}
		for _, e := range a.arr {
			switch e.kind {
			case opString:
				w.show(e.str)
			case opNumber:
				if e.num < -kernSpace {
					w.breakAt(breakSpace)
				}
			}
		}
	}
}

// textFromStream interprets the text operators of a content stream. Line
// moves start a new line and moves of more than one and a half lines start
// a new paragraph.
func textFromStream(data []byte, fonts map[string]*font) string {
	w := &textWriter{fonts: fonts, size: 1, scale: 1}
	scan(data, w.operator)
	return cleanText(w.sb.String())
}

// decodeString handles PDF escape sequences.
func decodeString(raw []byte) []byte {
	var out bytes.Buffer
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			out.WriteByte(raw[i])
			continue
		}
		i++
		switch c := raw[i]; c {
		case 'n':
			out.WriteByte('\n')
		case 'r':
			out.WriteByte('\r')
		case 't':
			out.WriteByte('\t')
		case 'b':
			out.WriteByte('\b')
		case 'f':
			out.WriteByte('\f')
		case '\r':
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
		case '\n':
		default:
			if c < '0' || c > '7' {
				out.WriteByte(c)
				continue
			}
			val := int(c - '0')
			for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			out.WriteByte(byte(val))
		}
	}
	return out.Bytes()
}

// cleanText collapses whitespace within lines, drops non-printable runes
// and keeps at most one blank line between paragraphs.
func cleanText(text string) string {
	var lines []string
	blank := false
	for _, line := range strings.Split(text, "\n") {
		var sb strings.Builder
		space := false
		for _, r := range line {
			switch {
			case unicode.IsSpace(r):
				space = sb.Len() > 0
			case unicode.IsPrint(r):
				if space {
					sb.WriteByte(' ')
					space = false
				}
				sb.WriteRune(r)
			}
		}
		if sb.Len() == 0 {
			blank = len(lines) > 0
			continue
		}
		if blank {
			lines = append(lines, "")
			blank = false
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}
