package query

import "github.com/sirupsen/logrus"

// log 查询模块的日志记录器
var log = logrus.WithField("module", "query")
