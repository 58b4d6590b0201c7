package util

import (
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"io"
	"log"
	"os"
	"time"
)

func InitLog() {
	if err := MkdirAll("./app/log"); err != nil {
		log.Printf("failed to create log dir: %s", err)
		return
	}
	logf, err := rotatelogs.New(
		"./app/log/%Y-%m-%d.log",
		rotatelogs.WithLinkName("./app/log/app.log"),
		rotatelogs.WithMaxAge(7*24*time.Hour),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		log.Printf("failed to create rotatelogs: %s", err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stdout, logf))
}
