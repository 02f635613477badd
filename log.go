package bbs

import (
	"github.com/privacybydesign/bbs/safeprime"
	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.StandardLogger()
	safeprime.Logger = Logger
}
