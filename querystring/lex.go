// Tencent is pleased to support the open source community by making
// 蓝鲸智云 - 监控平台 (BlueKing - Monitor) available.
// Copyright (C) 2022 THL A29 Limited, a Tencent company. All rights reserved.
// Licensed under the MIT License (the "License"); you may not use this file except in compliance with the License.
// You may obtain a copy of the License at http://opensource.org/licenses/MIT
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package querystring

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	input string
	pos   int
}

// tokenize 将查询文本切分为词法单元序列，最后一个必然是 EOF。
// 裸值后紧跟冒号时被重新归类为字段名。
func tokenize(input string) ([]token, error) {
	l := &lexer{input: input}

	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.typ == tEOF {
			break
		}
	}

	for i := 0; i+1 < len(toks); i++ {
		if (toks[i].typ == tSTRING || toks[i].typ == tNUMBER) && toks[i+1].typ == tCOLON {
			toks[i].typ = tFIELD
		}
	}

	if err := checkRangeBrackets(toks); err != nil {
		return nil, err
	}
	return toks, nil
}

// checkRangeBrackets 范围括号必须平衡，[ 和 { 可以互相配对以支持
// 混合开闭区间
func checkRangeBrackets(toks []token) error {
	var stack []int
	for _, tok := range toks {
		switch tok.typ {
		case tLBRACKET, tLBRACE:
			stack = append(stack, tok.offset)
		case tRBRACKET, tRBRACE:
			if len(stack) == 0 {
				return &LexError{Offset: tok.offset, Reason: "unbalanced bracket"}
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return &LexError{Offset: stack[len(stack)-1], Reason: "unbalanced bracket"}
	}
	return nil
}

func (l *lexer) peekRune() (rune, int) {
	if l.pos >= len(l.input) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

func (l *lexer) next() (token, error) {
	for {
		start := l.pos
		r, size := l.peekRune()
		if size == 0 {
			return token{typ: tEOF, offset: l.pos}, nil
		}

		switch r {
		case ' ', '\t', '\n', '\r':
			l.pos += size
			continue
		case '"':
			return l.scanPhrase(start)
		case '/':
			return l.scanRegex(start)
		case '(':
			l.pos += size
			return token{typ: tLPAREN, value: "(", offset: start}, nil
		case ')':
			l.pos += size
			return token{typ: tRPAREN, value: ")", offset: start}, nil
		case '[':
			l.pos += size
			return token{typ: tLBRACKET, value: "[", offset: start}, nil
		case ']':
			l.pos += size
			return token{typ: tRBRACKET, value: "]", offset: start}, nil
		case '{':
			l.pos += size
			return token{typ: tLBRACE, value: "{", offset: start}, nil
		case '}':
			l.pos += size
			return token{typ: tRBRACE, value: "}", offset: start}, nil
		case ':':
			l.pos += size
			return token{typ: tCOLON, value: ":", offset: start}, nil
		case '>':
			l.pos += size
			if r2, s2 := l.peekRune(); r2 == '=' {
				l.pos += s2
				return token{typ: tGTE, value: ">=", offset: start}, nil
			}
			return token{typ: tGT, value: ">", offset: start}, nil
		case '<':
			l.pos += size
			if r2, s2 := l.peekRune(); r2 == '=' {
				l.pos += s2
				return token{typ: tLTE, value: "<=", offset: start}, nil
			}
			return token{typ: tLT, value: "<", offset: start}, nil
		}

		return l.scanString(start)
	}
}

// scanPhrase 扫描双引号短语，引号内只有 \" 和 \\ 是转义序列
func (l *lexer) scanPhrase(start int) (token, error) {
	l.pos++ // opening quote
	var b strings.Builder
	inEscape := false
	for {
		r, size := l.peekRune()
		if size == 0 {
			return token{}, &LexError{Offset: start, Reason: "unterminated quote"}
		}
		l.pos += size

		if inEscape {
			inEscape = false
			if r == '"' || r == '\\' {
				b.WriteRune(r)
			} else {
				b.WriteByte('\\')
				b.WriteRune(r)
			}
			continue
		}
		switch r {
		case '\\':
			inEscape = true
		case '"':
			return token{typ: tPHRASE, value: b.String(), offset: start}, nil
		default:
			b.WriteRune(r)
		}
	}
}

// scanRegex 扫描 /.../ 正则。单独出现的 / 当作普通值处理
func (l *lexer) scanRegex(start int) (token, error) {
	l.pos++ // opening slash
	if r, size := l.peekRune(); size == 0 || unicode.IsSpace(r) {
		return token{typ: tSTRING, value: "/", offset: start}, nil
	}

	var b strings.Builder
	inEscape := false
	for {
		r, size := l.peekRune()
		if size == 0 {
			return token{}, &LexError{Offset: start, Reason: "unterminated regex"}
		}
		l.pos += size

		if inEscape {
			inEscape = false
			if r == '/' {
				b.WriteRune(r)
			} else {
				b.WriteByte('\\')
				b.WriteRune(r)
			}
			continue
		}
		switch r {
		case '\\':
			inEscape = true
		case '/':
			return token{typ: tREGEX, value: b.String(), offset: start}, nil
		default:
			b.WriteRune(r)
		}
	}
}

func isStringTerminator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', ':', '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

// scanString 扫描未加引号的裸值，遇到未转义的空白、冒号或括号结束。
// 未转义的通配符为 token 打上 wildcard 标记
func (l *lexer) scanString(start int) (token, error) {
	var (
		b        strings.Builder
		inEscape bool
		escaped  bool
		wildcard bool
		seenDot  bool
		numeric  = true
	)
	for {
		r, size := l.peekRune()
		if size == 0 {
			break
		}
		if inEscape {
			l.pos += size
			inEscape = false
			b.WriteString(unescape(string(r)))
			numeric = false
			continue
		}
		if isStringTerminator(r) {
			break
		}
		if unicode.IsControl(r) {
			return token{}, &LexError{Offset: l.pos, Reason: "control character in value"}
		}
		l.pos += size

		if r == '\\' {
			inEscape = true
			escaped = true
			continue
		}
		if r == '*' || r == '?' {
			wildcard = true
		}
		if r == '.' && !seenDot && b.Len() > 0 {
			seenDot = true
		} else if !unicode.IsDigit(r) {
			numeric = false
		}
		b.WriteRune(r)
	}
	if inEscape {
		return token{}, &LexError{Offset: l.pos, Reason: "dangling escape"}
	}

	value := b.String()
	if !escaped {
		switch value {
		case "AND":
			return token{typ: tAND, value: value, offset: start}, nil
		case "OR":
			return token{typ: tOR, value: value, offset: start}, nil
		case "NOT":
			return token{typ: tNOT, value: value, offset: start}, nil
		case "TO":
			return token{typ: tTO, value: value, offset: start}, nil
		}
	}

	typ := tSTRING
	if numeric && value != "" && !wildcard {
		typ = tNUMBER
	}
	return token{typ: typ, value: value, offset: start, wildcard: wildcard}, nil
}
