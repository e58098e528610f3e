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
)

// reservedChars 查询语法保留字符，字面量中出现时需要反斜杠转义
const reservedChars = `+-=&|><!(){}[]^"~*?:\/ `

// wildcardChars 通配符
const wildcardChars = "*?"

// unescape 还原一个反斜杠转义序列：保留字符去掉反斜杠，
// 其他字符连同反斜杠原样保留
func unescape(escaped string) string {
	if strings.ContainsAny(escaped, reservedChars) {
		return escaped
	}
	return `\` + escaped
}

// Escape 对字面量中的保留字符做反斜杠转义
func Escape(value string) string {
	return escapeValue(value, false)
}

// EscapeKeepWildcard 同 Escape，但保留 * 和 ? 不转义
func EscapeKeepWildcard(value string) string {
	return escapeValue(value, true)
}

func escapeValue(value string, keepWildcard bool) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if keepWildcard && strings.ContainsRune(wildcardChars, r) {
			b.WriteRune(r)
			continue
		}
		if strings.ContainsRune(reservedChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Quote 将字面量包装为带双引号的短语，内部只需要转义反斜杠和双引号
func Quote(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('"')
	for _, r := range value {
		if r == '\\' || r == '"' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// Unquote 去掉双引号包装并还原内部转义，输入不是带引号短语时原样返回
func Unquote(value string) string {
	if len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
		return value
	}
	inner := value[1 : len(value)-1]
	var b strings.Builder
	b.Grow(len(inner))
	inEscape := false
	for _, r := range inner {
		if inEscape {
			inEscape = false
			b.WriteRune(r)
			continue
		}
		if r == '\\' {
			inEscape = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
