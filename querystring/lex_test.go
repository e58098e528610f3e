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

func TestTokenize(t *testing.T) {
	testCases := map[string]struct {
		q    string
		toks []token
	}{
		"field_and_value": {
			q: `status: error`,
			toks: []token{
				{typ: tFIELD, value: "status", offset: 0},
				{typ: tCOLON, value: ":", offset: 6},
				{typ: tSTRING, value: "error", offset: 8},
				{typ: tEOF, offset: 13},
			},
		},
		"keywords_case_sensitive": {
			q: `AND and OR or NOT not TO to`,
			toks: []token{
				{typ: tAND, value: "AND", offset: 0},
				{typ: tSTRING, value: "and", offset: 4},
				{typ: tOR, value: "OR", offset: 8},
				{typ: tSTRING, value: "or", offset: 11},
				{typ: tNOT, value: "NOT", offset: 14},
				{typ: tSTRING, value: "not", offset: 18},
				{typ: tTO, value: "TO", offset: 22},
				{typ: tSTRING, value: "to", offset: 25},
				{typ: tEOF, offset: 27},
			},
		},
		"phrase_with_escape": {
			q: `"a \"b\" \c"`,
			toks: []token{
				{typ: tPHRASE, value: `a "b" \c`, offset: 0},
				{typ: tEOF, offset: 12},
			},
		},
		"range_tokens": {
			q: `severity: [1 TO 5}`,
			toks: []token{
				{typ: tFIELD, value: "severity", offset: 0},
				{typ: tCOLON, value: ":", offset: 8},
				{typ: tLBRACKET, value: "[", offset: 10},
				{typ: tNUMBER, value: "1", offset: 11},
				{typ: tTO, value: "TO", offset: 13},
				{typ: tNUMBER, value: "5", offset: 16},
				{typ: tRBRACE, value: "}", offset: 17},
				{typ: tEOF, offset: 18},
			},
		},
		"comparison_operators": {
			q: `>= <= > <`,
			toks: []token{
				{typ: tGTE, value: ">=", offset: 0},
				{typ: tLTE, value: "<=", offset: 3},
				{typ: tGT, value: ">", offset: 6},
				{typ: tLT, value: "<", offset: 8},
				{typ: tEOF, offset: 9},
			},
		},
		"wildcard_flag": {
			q: `err* e?r e\*r`,
			toks: []token{
				{typ: tSTRING, value: "err*", offset: 0, wildcard: true},
				{typ: tSTRING, value: "e?r", offset: 5, wildcard: true},
				{typ: tSTRING, value: "e*r", offset: 9},
				{typ: tEOF, offset: 13},
			},
		},
		"number_classification": {
			q: `42 4.2 4.2.1 abc1`,
			toks: []token{
				{typ: tNUMBER, value: "42", offset: 0},
				{typ: tNUMBER, value: "4.2", offset: 3},
				{typ: tSTRING, value: "4.2.1", offset: 7},
				{typ: tSTRING, value: "abc1", offset: 13},
				{typ: tEOF, offset: 17},
			},
		},
		"chinese_value": {
			q: `致命`,
			toks: []token{
				{typ: tSTRING, value: "致命", offset: 0},
				{typ: tEOF, offset: 6},
			},
		},
		"regex_value": {
			q: `/a\/b.*/`,
			toks: []token{
				{typ: tREGEX, value: "a/b.*", offset: 0},
				{typ: tEOF, offset: 8},
			},
		},
		"lone_slash": {
			q: `/`,
			toks: []token{
				{typ: tSTRING, value: "/", offset: 0},
				{typ: tEOF, offset: 1},
			},
		},
		"parens": {
			q: `(a)`,
			toks: []token{
				{typ: tLPAREN, value: "(", offset: 0},
				{typ: tSTRING, value: "a", offset: 1},
				{typ: tRPAREN, value: ")", offset: 2},
				{typ: tEOF, offset: 3},
			},
		},
	}

	for name, c := range testCases {
		t.Run(name, func(t *testing.T) {
			toks, err := tokenize(c.q)
			assert.NoError(t, err)
			assert.Equal(t, c.toks, toks)
		})
	}
}

func TestTokenizeError(t *testing.T) {
	testCases := map[string]struct {
		q      string
		offset int
		reason string
	}{
		"unterminated_quote":  {q: `status: "error`, offset: 8, reason: "unterminated quote"},
		"unterminated_regex":  {q: `/err.*`, offset: 0, reason: "unterminated regex"},
		"unbalanced_open":     {q: `severity: [1 TO 5`, offset: 10, reason: "unbalanced bracket"},
		"unbalanced_close":    {q: `severity: 1 TO 5]`, offset: 16, reason: "unbalanced bracket"},
		"control_character":   {q: "err\x01or", offset: 3, reason: "control character in value"},
		"dangling_escape":     {q: `error\`, offset: 6, reason: "dangling escape"},
		"unbalanced_brace":    {q: `{1 TO 5`, offset: 0, reason: "unbalanced bracket"},
	}

	for name, c := range testCases {
		t.Run(name, func(t *testing.T) {
			toks, err := tokenize(c.q)
			assert.Nil(t, toks)
			var lexErr *LexError
			assert.ErrorAs(t, err, &lexErr)
			assert.Equal(t, c.offset, lexErr.Offset)
			assert.Equal(t, c.reason, lexErr.Reason)
		})
	}
}
