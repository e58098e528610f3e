// Tencent is pleased to support the open source community by making
// 蓝鲸智云 - 监控平台 (BlueKing - Monitor) available.
// Copyright (C) 2022 THL A29 Limited, a Tencent company. All rights reserved.
// Licensed under the MIT License (the "License"); you may not use this file except in compliance with the License.
// You may obtain a copy of the License at http://opensource.org/licenses/MIT
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package log

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LevelConfigPath = "log.level"
	PathConfigPath  = "log.path"
)

var (
	loggerLevel = zap.NewAtomicLevel()

	logger     *zap.Logger
	loggerLock sync.RWMutex

	once sync.Once
)

// setDefaultConfig
func setDefaultConfig() {
	viper.SetDefault(LevelConfigPath, "info")
	viper.SetDefault(PathConfigPath, "")
}

// 从string到AtomicLevel的转换
func setLogLevel(level string) {
	switch level {
	case "debug":
		loggerLevel.SetLevel(zap.DebugLevel)
	case "info":
		loggerLevel.SetLevel(zap.InfoLevel)
	case "warning":
		loggerLevel.SetLevel(zap.WarnLevel)
	case "error":
		loggerLevel.SetLevel(zap.ErrorLevel)
	case "fatal":
		loggerLevel.SetLevel(zap.FatalLevel)
	default:
		loggerLevel.SetLevel(zap.InfoLevel)
	}
}

// 初始化日志配置
func initLogConfig() {
	// 配置日志级别
	setLogLevel(viper.GetString(LevelConfigPath))

	// 日志路径配置
	var writeSyncer zapcore.WriteSyncer
	if viper.GetString(PathConfigPath) == "" {
		writeSyncer = zapcore.Lock(os.Stdout)
	} else {
		f, err := os.OpenFile(viper.GetString(PathConfigPath), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Printf("failed to open log file for->[%s]", err)
			return
		}
		writeSyncer = zapcore.Lock(zapcore.AddSync(f))
	}
	// 配置日志格式
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	})

	loggerLock.Lock()
	logger = zap.New(
		zapcore.NewCore(encoder, writeSyncer, loggerLevel),
		zap.AddCaller(), zap.AddCallerSkip(2),
	)
	loggerLock.Unlock()
}

// InitConfig 配置解析完成后加载日志配置
func InitConfig() {
	setDefaultConfig()
	initLogConfig()
}

// InitTestLogger 加载单元测试日志配置
func InitTestLogger() {
	// 加载配置
	viper.Set(LevelConfigPath, "debug")
	initLogConfig()
}

func defaultLogger() *zap.Logger {
	loggerLock.RLock()
	l := logger
	loggerLock.RUnlock()
	if l != nil {
		return l
	}
	once.Do(func() {
		setDefaultConfig()
		initLogConfig()
	})
	loggerLock.RLock()
	defer loggerLock.RUnlock()
	return logger
}
