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

// LexError 词法错误：未闭合的引号、未闭合的正则、括号不平衡、
// 未加引号的值中出现控制字符
type LexError struct {
	Offset int
	Reason string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at offset %d: %s", e.Offset, e.Reason)
}

// ParseError 语法错误，Found 为实际读到的词法单元描述
type ParseError struct {
	Offset   int
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: expected %s, found %s", e.Offset, e.Expected, e.Found)
}

// InvalidIdentifierError 字段名不符合标识符规则
type InvalidIdentifierError struct {
	Field string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid field identifier: %q", e.Field)
}
