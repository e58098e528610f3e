// Tencent is pleased to support the open source community by making
// 蓝鲸智云 - 监控平台 (BlueKing - Monitor) available.
// Copyright (C) 2022 THL A29 Limited, a Tencent company. All rights reserved.
// Licensed under the MIT License (the "License"); you may not use this file except in compliance with the License.
// You may obtain a copy of the License at http://opensource.org/licenses/MIT
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package transformer

import (
	"github.com/pkg/errors"

	"github.com/TencentBlueKing/bk-esquery/querystring"
)

// QueryStringParseError 查询字符串不合法，Offset 指向原始输入中的出错位置
type QueryStringParseError struct {
	Query  string
	Offset int
	err    error
}

func newQueryStringParseError(query string, err error) *QueryStringParseError {
	offset := -1
	var lexErr *querystring.LexError
	var parseErr *querystring.ParseError
	switch {
	case errors.As(err, &lexErr):
		offset = lexErr.Offset
	case errors.As(err, &parseErr):
		offset = parseErr.Offset
	}
	return &QueryStringParseError{
		Query:  query,
		Offset: offset,
		err:    errors.WithMessagef(err, "invalid query string %q", query),
	}
}

func (e *QueryStringParseError) Error() string {
	return e.err.Error()
}

func (e *QueryStringParseError) Unwrap() error {
	return e.err
}
