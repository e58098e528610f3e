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
	"testing"

	"github.com/stretchr/testify/assert"
)

func sp(s string) *string {
	return &s
}

func TestParse(t *testing.T) {
	testCases := map[string]struct {
		q   string
		e   Expr
		out string
	}{
		"simple_term": {
			q:   `error`,
			e:   &TermExpr{Value: "error"},
			out: `error`,
		},
		"chinese_term": {
			q:   `致命`,
			e:   &TermExpr{Value: "致命"},
			out: `致命`,
		},
		"field_term": {
			q:   `status: error`,
			e:   &TermExpr{Field: "status", Value: "error"},
			out: `status: error`,
		},
		"field_term_no_space": {
			q:   `status:error`,
			e:   &TermExpr{Field: "status", Value: "error"},
			out: `status: error`,
		},
		"dotted_field": {
			q:   `resource.k8s.pod: nginx`,
			e:   &TermExpr{Field: "resource.k8s.pod", Value: "nginx"},
			out: `resource.k8s.pod: nginx`,
		},
		"field_phrase": {
			q:   `message: "hello world"`,
			e:   &TermExpr{Field: "message", Value: "hello world", IsQuoted: true},
			out: `message: "hello world"`,
		},
		"bare_phrase": {
			q:   `"hello world"`,
			e:   &TermExpr{Value: "hello world", IsQuoted: true},
			out: `"hello world"`,
		},
		"phrase_escaped_quote": {
			q:   `message: "say \"hi\""`,
			e:   &TermExpr{Field: "message", Value: `say "hi"`, IsQuoted: true},
			out: `message: "say \"hi\""`,
		},
		"wildcard_value": {
			q:   `path: var*log`,
			e:   &TermExpr{Field: "path", Value: "var*log", IsWildcard: true},
			out: `path: var*log`,
		},
		"escaped_wildcard_is_literal": {
			q:   `path: var\*log`,
			e:   &TermExpr{Field: "path", Value: "var*log"},
			out: `path: var\*log`,
		},
		"escaped_space_value": {
			q:   `host: my\ host`,
			e:   &TermExpr{Field: "host", Value: "my host"},
			out: `host: "my host"`,
		},
		"implicit_and": {
			q: `error timeout`,
			e: NewGroupExpr(OpAnd,
				&TermExpr{Value: "error"},
				&TermExpr{Value: "timeout"},
			),
			out: `error AND timeout`,
		},
		"explicit_and": {
			q: `status: error AND host: web01`,
			e: NewGroupExpr(OpAnd,
				&TermExpr{Field: "status", Value: "error"},
				&TermExpr{Field: "host", Value: "web01"},
			),
			out: `status: error AND host: web01`,
		},
		"or_lower_than_and": {
			q: `a OR b AND c`,
			e: NewGroupExpr(OpOr,
				&TermExpr{Value: "a"},
				NewGroupExpr(OpAnd,
					&TermExpr{Value: "b"},
					&TermExpr{Value: "c"},
				),
			),
			out: `a OR (b AND c)`,
		},
		"not_binds_tightest": {
			q: `NOT a AND b`,
			e: NewGroupExpr(OpAnd,
				NewNotExpr(&TermExpr{Value: "a"}),
				&TermExpr{Value: "b"},
			),
			out: `NOT a AND b`,
		},
		"double_not": {
			q:   `NOT NOT a`,
			e:   NewNotExpr(NewNotExpr(&TermExpr{Value: "a"})),
			out: `NOT NOT a`,
		},
		"not_group": {
			q: `NOT (a OR b)`,
			e: NewNotExpr(NewGroupExpr(OpOr,
				&TermExpr{Value: "a"},
				&TermExpr{Value: "b"},
			)),
			out: `NOT (a OR b)`,
		},
		"paren_changes_precedence": {
			q: `(a OR b) AND c`,
			e: NewGroupExpr(OpAnd,
				NewGroupExpr(OpOr,
					&TermExpr{Value: "a"},
					&TermExpr{Value: "b"},
				),
				&TermExpr{Value: "c"},
			),
			out: `(a OR b) AND c`,
		},
		"field_value_group": {
			q: `status: (error OR warning)`,
			e: NewGroupExpr(OpOr,
				&TermExpr{Field: "status", Value: "error"},
				&TermExpr{Field: "status", Value: "warning"},
			),
			out: `status: (error OR warning)`,
		},
		"field_value_group_single": {
			q:   `(severity: 1)`,
			e:   NewGroupExpr(OpAnd, &TermExpr{Field: "severity", Value: "1"}),
			out: `(severity: 1)`,
		},
		"range_inclusive": {
			q:   `severity: [1 TO 5]`,
			e:   &RangeExpr{Field: "severity", Start: sp("1"), End: sp("5"), IncludeStart: true, IncludeEnd: true},
			out: `severity: [1 TO 5]`,
		},
		"range_exclusive": {
			q:   `severity: {1 TO 5}`,
			e:   &RangeExpr{Field: "severity", Start: sp("1"), End: sp("5")},
			out: `severity: {1 TO 5}`,
		},
		"range_mixed": {
			q:   `severity: [1 TO 5}`,
			e:   &RangeExpr{Field: "severity", Start: sp("1"), End: sp("5"), IncludeStart: true},
			out: `severity: [1 TO 5}`,
		},
		"range_unbounded_end": {
			q:   `severity: [1 TO *]`,
			e:   &RangeExpr{Field: "severity", Start: sp("1"), IncludeStart: true},
			out: `severity: >=1`,
		},
		"range_gte": {
			q:   `severity: >=3`,
			e:   &RangeExpr{Field: "severity", Start: sp("3"), IncludeStart: true},
			out: `severity: >=3`,
		},
		"range_lt": {
			q:   `severity: <3`,
			e:   &RangeExpr{Field: "severity", End: sp("3")},
			out: `severity: <3`,
		},
		"range_gt_space": {
			q:   `severity: > 3`,
			e:   &RangeExpr{Field: "severity", Start: sp("3")},
			out: `severity: >3`,
		},
		"regex_value": {
			q:   `message: /err.{1,3}/`,
			e:   &RawExpr{Field: "message", Text: "err.{1,3}"},
			out: `message: /err.{1,3}/`,
		},
		"regex_escaped_slash": {
			q:   `path: /\/var\/log.*/`,
			e:   &RawExpr{Field: "path", Text: "/var/log.*"},
			out: `path: /\/var\/log.*/`,
		},
		"lowercase_keyword_is_value": {
			q: `status: error and timeout`,
			e: NewGroupExpr(OpAnd,
				&TermExpr{Field: "status", Value: "error"},
				&TermExpr{Value: "and"},
				&TermExpr{Value: "timeout"},
			),
			out: `status: error AND and AND timeout`,
		},
		"quoted_keyword_is_value": {
			q:   `"AND"`,
			e:   &TermExpr{Value: "AND", IsQuoted: true},
			out: `"AND"`,
		},
		"mixed_clauses": {
			q: `致命 OR (severity: 1)`,
			e: NewGroupExpr(OpOr,
				&TermExpr{Value: "致命"},
				NewGroupExpr(OpAnd, &TermExpr{Field: "severity", Value: "1"}),
			),
			out: `致命 OR (severity: 1)`,
		},
	}

	for name, c := range testCases {
		t.Run(name, func(t *testing.T) {
			e, err := Parse(c.q)
			assert.NoError(t, err)
			assert.Equal(t, c.e, e)
			assert.Equal(t, c.out, String(e))

			// 序列化结果必须能再次解析为同一棵树
			again, err := Parse(c.out)
			assert.NoError(t, err)
			assert.Equal(t, c.out, String(again))
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for name, q := range map[string]string{
		"empty":      "",
		"whitespace": "   \t ",
	} {
		t.Run(name, func(t *testing.T) {
			e, err := Parse(q)
			assert.NoError(t, err)
			assert.Nil(t, e)
		})
	}
}

func TestParseError(t *testing.T) {
	testCases := map[string]struct {
		q      string
		offset int
	}{
		"unclosed_paren":      {q: `status: (error`, offset: 8},
		"unclosed_top_paren":  {q: `(a OR b`, offset: 0},
		"missing_value":       {q: `status:`, offset: 7},
		"dangling_and":        {q: `error AND`, offset: 9},
		"leading_and":         {q: `AND error`, offset: 0},
		"bare_to":             {q: `a TO b`, offset: 2},
		"range_missing_to":    {q: `severity: [1 5]`, offset: 13},
		"chinese_field":       {q: `状态: error`, offset: 0},
		"field_leading_digit": {q: `1status: error`, offset: 0},
		"stray_rparen":        {q: `error )`, offset: 6},
		"bare_range":          {q: `[1 TO 2]`, offset: 0},
		"bare_comparison":     {q: `>=3`, offset: 0},
		"bare_range_in_bool":  {q: `a: 1 AND [1 TO 2]`, offset: 9},
	}

	for name, c := range testCases {
		t.Run(name, func(t *testing.T) {
			e, err := Parse(c.q)
			assert.Nil(t, e)
			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
			assert.Equal(t, c.offset, parseErr.Offset)
		})
	}
}
