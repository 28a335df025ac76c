package primitive

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "primitive")
