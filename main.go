package main

import (
	"time"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/cmd"
	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/util"
)

func main() {
	data := map[string]interface{}{
		"startTime": time.Now().Format("January 02, 2006 - 03:04:05 PM MST"),
		"message":   "Starting atcloud notification server . . .",
		"repo":      "atcloud-notification",
	}
	util.PrettyPrint(data)
	cmd.New().Execute()
}
