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
	"fmt"
)

type tokenType int

const (
	tEOF tokenType = iota
	tFIELD
	tSTRING
	tNUMBER
	tPHRASE
	tREGEX
	tCOLON
	tGT
	tGTE
	tLT
	tLTE
	tLPAREN
	tRPAREN
	tLBRACKET // [
	tRBRACKET // ]
	tLBRACE   // {
	tRBRACE   // }
	tAND
	tOR
	tNOT
	tTO
)

var tokenNames = map[tokenType]string{
	tEOF:      "EOF",
	tFIELD:    "FIELD",
	tSTRING:   "VALUE",
	tNUMBER:   "NUMBER",
	tPHRASE:   "PHRASE",
	tREGEX:    "REGEX",
	tCOLON:    ":",
	tGT:       ">",
	tGTE:      ">=",
	tLT:       "<",
	tLTE:      "<=",
	tLPAREN:   "(",
	tRPAREN:   ")",
	tLBRACKET: "[",
	tRBRACKET: "]",
	tLBRACE:   "{",
	tRBRACE:   "}",
	tAND:      "AND",
	tOR:       "OR",
	tNOT:      "NOT",
	tTO:       "TO",
}

func (t tokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// token 单个词法单元，offset 为源文本中的字节偏移，用于错误定位。
// token 只在一次解析过程中存活。
type token struct {
	typ      tokenType
	value    string
	offset   int
	wildcard bool
}

func (t token) String() string {
	switch t.typ {
	case tFIELD, tSTRING, tNUMBER, tPHRASE, tREGEX:
		return fmt.Sprintf("%q", t.value)
	default:
		return t.typ.String()
	}
}
