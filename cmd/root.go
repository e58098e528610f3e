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
	"os"

	"github.com/spf13/cobra"

	"github.com/TencentBlueKing/bk-esquery/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bk-esquery",
	Short: "query string transformation toolkit for bk-monitor ES logs",
	Long:  `query string transformation toolkit for bk-monitor ES logs`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.InitConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init 加载默认配置
func init() {
	rootCmd.PersistentFlags().StringVar(
		&config.CustomConfigFilePath, "config", "", "config file (default is $HOME/bk-esquery.yaml)",
	)
}
