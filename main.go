// @title MockView 后端 API
// @version 1.0
// @description 模拟面试服务：题库出题、定制面试、答案评分与 PDF 报告。

// @host localhost:5001
// @BasePath /

package main

import (
	"os"

	"mockview_backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
