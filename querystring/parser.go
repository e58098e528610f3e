// Tencent is pleased to support the open source community by making
// 蓝鲸智云 - 监控平台 (BlueKing - Monitor) available.
// Copyright (C) 2022 THL A29 Limited, a Tencent company. All rights reserved.
// Licensed under the MIT License (the "License"); you may not use this file except in compliance with the License.
// You may obtain a copy of the License at http://opensource.org/licenses/MIT
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package querystring

// Parse 将查询字符串解析为表达式树，运算符优先级从低到高为 OR、AND、NOT，
// 相邻的两个子句之间隐含 AND。空字符串返回 nil 树
func Parse(query string) (Expr, error) {
	toks, err := tokenize(query)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if p.peek().typ == tEOF {
		return nil, nil
	}
	expr, err := p.parseOr("")
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.typ != tEOF {
		return nil, &ParseError{Offset: tok.offset, Expected: "EOF", Found: tok.String()}
	}
	return expr, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	tok := p.toks[p.pos]
	if tok.typ != tEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(typ tokenType) (token, error) {
	tok := p.peek()
	if tok.typ != typ {
		return token{}, &ParseError{Offset: tok.offset, Expected: typ.String(), Found: tok.String()}
	}
	return p.advance(), nil
}

// field 为当前作用的字段名，括号值组内的子句共享组外的字段
func (p *parser) parseOr(field string) (Expr, error) {
	left, err := p.parseAnd(field)
	if err != nil {
		return nil, err
	}
	children := []Expr{left}
	for p.peek().typ == tOR {
		p.advance()
		right, err := p.parseAnd(field)
		if err != nil {
			return nil, err
		}
		children = append(children, right)
	}
	if len(children) == 1 {
		return left, nil
	}
	return NewGroupExpr(OpOr, children...), nil
}

func (p *parser) parseAnd(field string) (Expr, error) {
	left, err := p.parseNot(field)
	if err != nil {
		return nil, err
	}
	children := []Expr{left}
	for {
		tok := p.peek()
		if tok.typ == tAND {
			p.advance()
		} else if !p.startsClause(tok) {
			break
		}
		right, err := p.parseNot(field)
		if err != nil {
			return nil, err
		}
		children = append(children, right)
	}
	if len(children) == 1 {
		return left, nil
	}
	return NewGroupExpr(OpAnd, children...), nil
}

// startsClause 判断相邻 token 是否开启新子句，用于隐含 AND
func (p *parser) startsClause(tok token) bool {
	switch tok.typ {
	case tFIELD, tSTRING, tNUMBER, tPHRASE, tREGEX, tNOT, tLPAREN,
		tLBRACKET, tLBRACE, tGT, tGTE, tLT, tLTE:
		return true
	}
	return false
}

func (p *parser) parseNot(field string) (Expr, error) {
	if p.peek().typ == tNOT {
		p.advance()
		inner, err := p.parseNot(field)
		if err != nil {
			return nil, err
		}
		return NewNotExpr(inner), nil
	}
	return p.parseAtom(field)
}

func (p *parser) parseAtom(field string) (Expr, error) {
	tok := p.peek()
	switch tok.typ {
	case tLPAREN:
		p.advance()
		inner, err := p.parseOr(field)
		if err != nil {
			return nil, err
		}
		if _, err = p.expect(tRPAREN); err != nil {
			return nil, &ParseError{Offset: tok.offset, Expected: ")", Found: p.peek().String()}
		}
		if group, ok := inner.(*GroupExpr); ok {
			return group, nil
		}
		return NewGroupExpr(OpAnd, inner), nil
	case tFIELD:
		if !ValidIdentifier(tok.value) {
			return nil, &ParseError{Offset: tok.offset, Expected: "identifier", Found: tok.value}
		}
		p.advance()
		if _, err := p.expect(tCOLON); err != nil {
			return nil, err
		}
		return p.parseFieldValue(tok.value)
	case tLBRACKET, tLBRACE, tGT, tGTE, tLT, tLTE:
		// 范围必须挂在字段上，括号值组内继承组外的字段
		if field == "" {
			return nil, &ParseError{Offset: tok.offset, Expected: "field", Found: tok.String()}
		}
		return p.parseRange(field)
	case tSTRING, tNUMBER, tPHRASE, tREGEX:
		return p.parseValue(field)
	case tTO:
		return nil, &ParseError{Offset: tok.offset, Expected: "clause", Found: "TO"}
	default:
		return nil, &ParseError{Offset: tok.offset, Expected: "clause", Found: tok.String()}
	}
}

// parseFieldValue 解析冒号之后的部分：范围、括号值组或单个值
func (p *parser) parseFieldValue(field string) (Expr, error) {
	tok := p.peek()
	switch tok.typ {
	case tLBRACKET, tLBRACE, tGT, tGTE, tLT, tLTE:
		return p.parseRange(field)
	case tLPAREN:
		p.advance()
		inner, err := p.parseOr(field)
		if err != nil {
			return nil, err
		}
		if _, err = p.expect(tRPAREN); err != nil {
			return nil, &ParseError{Offset: tok.offset, Expected: ")", Found: p.peek().String()}
		}
		if group, ok := inner.(*GroupExpr); ok {
			return group, nil
		}
		return NewGroupExpr(OpAnd, inner), nil
	case tSTRING, tNUMBER, tPHRASE, tREGEX:
		return p.parseValue(field)
	default:
		return nil, &ParseError{Offset: tok.offset, Expected: "value", Found: tok.String()}
	}
}

func (p *parser) parseValue(field string) (Expr, error) {
	tok := p.advance()
	switch tok.typ {
	case tPHRASE:
		term := NewTermExpr(tok.value)
		term.Field = field
		term.IsQuoted = true
		term.IsWildcard = false
		return term, nil
	case tREGEX:
		return &RawExpr{Field: field, Text: tok.value}, nil
	default:
		term := NewTermExpr(tok.value)
		term.Field = field
		term.IsWildcard = tok.wildcard
		return term, nil
	}
}

// parseRange 解析区间语法，两端用 [ ] 表示闭、{ } 表示开，
// 比较运算符是单边区间的简写，* 表示无界
func (p *parser) parseRange(field string) (Expr, error) {
	tok := p.advance()
	switch tok.typ {
	case tGT, tGTE:
		bound, err := p.rangeBound()
		if err != nil {
			return nil, err
		}
		r := NewRangeExpr(bound, nil, tok.typ == tGTE, false)
		r.Field = field
		return r, nil
	case tLT, tLTE:
		bound, err := p.rangeBound()
		if err != nil {
			return nil, err
		}
		r := NewRangeExpr(nil, bound, false, tok.typ == tLTE)
		r.Field = field
		return r, nil
	}

	includeStart := tok.typ == tLBRACKET
	start, err := p.rangeBound()
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(tTO); err != nil {
		return nil, err
	}
	end, err := p.rangeBound()
	if err != nil {
		return nil, err
	}
	closer := p.advance()
	if closer.typ != tRBRACKET && closer.typ != tRBRACE {
		return nil, &ParseError{Offset: closer.offset, Expected: "] or }", Found: closer.String()}
	}
	includeEnd := closer.typ == tRBRACKET
	// 无界一侧的开闭区分没有意义，统一归一为开
	if start == nil {
		includeStart = false
	}
	if end == nil {
		includeEnd = false
	}
	r := NewRangeExpr(start, end, includeStart, includeEnd)
	r.Field = field
	return r, nil
}

// rangeBound returns nil for the unbounded marker *
func (p *parser) rangeBound() (*string, error) {
	tok := p.peek()
	switch tok.typ {
	case tSTRING, tNUMBER, tPHRASE:
		p.advance()
		if tok.typ != tPHRASE && tok.value == "*" {
			return nil, nil
		}
		value := tok.value
		return &value, nil
	default:
		return nil, &ParseError{Offset: tok.offset, Expected: "range bound", Found: tok.String()}
	}
}
