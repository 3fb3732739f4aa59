package domain

import "fmt"

type Video struct {
	Id    string `json:"id"`
	Title string `json:"title"`
}

func DefaultTitle(videoId string) string {
	return fmt.Sprintf("Video %s", videoId)
}
