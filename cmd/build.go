// Tencent is pleased to support the open source community by making
// 蓝鲸智云 - 监控平台 (BlueKing - Monitor) available.
// Copyright (C) 2022 THL A29 Limited, a Tencent company. All rights reserved.
// Licensed under the MIT License (the "License"); you may not use this file except in compliance with the License.
// You may obtain a copy of the License at http://opensource.org/licenses/MIT
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/TencentBlueKing/bk-esquery/builder"
	"github.com/TencentBlueKing/bk-esquery/config"
	"github.com/TencentBlueKing/bk-esquery/structured"
	"github.com/TencentBlueKing/bk-esquery/transformer"
)

var buildAsDsl bool

// buildCmd 从标准输入读取 JSON 条件列表
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "build a query string (or full DSL) from structured conditions on stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return errors.WithMessage(err, "failed to read stdin")
		}
		var conditions []structured.Condition
		if err = sonic.Unmarshal(data, &conditions); err != nil {
			return errors.WithMessage(err, "invalid conditions json")
		}

		if !buildAsDsl {
			query, err := builder.Build(conditions)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), query)
			return nil
		}

		table, err := config.ValueTable()
		if err != nil {
			return err
		}
		source, err := builder.NewDslBuilder().
			WithTransformer(transformer.New(config.FieldMapping(), table)).
			AddConditions(conditions...).
			SearchSource(cmd.Context())
		if err != nil {
			return err
		}
		body, err := source.Source()
		if err != nil {
			return err
		}
		out, err := sonic.MarshalIndent(body, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildAsDsl, "dsl", false, "emit a full search source instead of a query string")
	rootCmd.AddCommand(buildCmd)
}
