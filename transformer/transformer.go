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
	"context"
	"strings"
	"time"

	"github.com/TencentBlueKing/bk-esquery/log"
	"github.com/TencentBlueKing/bk-esquery/metric"
	"github.com/TencentBlueKing/bk-esquery/querystring"
)

// Transformer 查询字符串转换管道：解析、字段映射、值翻译、重新序列化
type Transformer struct {
	fieldMapping map[string]string
	valueTable   *querystring.ValueTable
}

// New 映射表为 nil 时转换退化为解析加重排
func New(fieldMapping map[string]string, valueTable *querystring.ValueTable) *Transformer {
	return &Transformer{
		fieldMapping: fieldMapping,
		valueTable:   valueTable,
	}
}

// Transform 空查询和全匹配查询原样返回，解析失败返回 QueryStringParseError
func (t *Transformer) Transform(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}
	if query == "*" {
		return "*", nil
	}

	start := time.Now()
	expr, err := querystring.Parse(query)
	if err != nil {
		metric.HandleCountInc(ctx, metric.ActionTransform, metric.StatusFailed)
		log.Warnf(ctx, "failed to parse query string->[%s] for->[%s]", query, err)
		return "", newQueryStringParseError(query, err)
	}

	out := querystring.String(querystring.Rewrite(expr, t.fieldMapping, t.valueTable))
	metric.HandleCountInc(ctx, metric.ActionTransform, metric.StatusSuccess)
	metric.HandleSecond(ctx, time.Since(start), metric.ActionTransform)
	return out, nil
}
