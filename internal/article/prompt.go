package article

import "fmt"

// MaxTokens is the generation budget for a full article.
const MaxTokens = 1024

// Prompt is the instruction sent to the text generator for topic.
func Prompt(topic string) string {
	return fmt.Sprintf("Write a comprehensive and complete article about %s. "+
		"Include information about its characteristics, location, discovery, significance in space exploration, and any known scientific findings. "+
		"Make it 500-800 words with natural paragraph breaks. "+
		"Do not use markdown formatting such as **, ##, etc. Use plain text with natural line breaks. "+
		"Ensure the article is fully detailed and not cut off. "+
		"Start with an engaging introduction, provide detailed body content, and end with a conclusion that ties the information together.",
		topic)
}
