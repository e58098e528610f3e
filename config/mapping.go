// Tencent is pleased to support the open source community by making
// 蓝鲸智云 - 监控平台 (BlueKing - Monitor) available.
// Copyright (C) 2022 THL A29 Limited, a Tencent company. All rights reserved.
// Licensed under the MIT License (the "License"); you may not use this file except in compliance with the License.
// You may obtain a copy of the License at http://opensource.org/licenses/MIT
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/TencentBlueKing/bk-esquery/querystring"
)

const (
	FieldMappingConfigPath      = "field_mapping"
	ValueTranslationsConfigPath = "value_translations"
)

// valueTranslation 配置文件里的一条值翻译，列表顺序就是匹配顺序
type valueTranslation struct {
	Field   string `mapstructure:"field"`
	Display string `mapstructure:"display"`
	Value   string `mapstructure:"value"`
}

// FieldMapping 查询字段到存储字段的映射表
func FieldMapping() map[string]string {
	return viper.GetStringMapString(FieldMappingConfigPath)
}

// ValueTable 按配置顺序组装值翻译表
func ValueTable() (*querystring.ValueTable, error) {
	var translations []valueTranslation
	if err := viper.UnmarshalKey(ValueTranslationsConfigPath, &translations); err != nil {
		return nil, errors.WithMessage(err, "invalid value_translations config")
	}
	table := querystring.NewValueTable()
	for _, t := range translations {
		if t.Field == "" || t.Display == "" {
			return nil, errors.Errorf("value translation requires field and display, got %+v", t)
		}
		table.Add(t.Field, t.Display, t.Value)
	}
	return table, nil
}
