package api

import (
	"fmt"
	"net/url"
)

// CreateQuestion posts a new question.
func (c *Client) CreateQuestion(input QuestionInput) (*Question, error) {
	data, err := c.post("/api/questions", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Question](data)
}

// GetQuestion fetches a single question by id.
func (c *Client) GetQuestion(id string) (*Question, error) {
	data, err := c.get(fmt.Sprintf("/api/questions/%s", url.PathEscape(id)))
	if err != nil {
		return nil, err
	}
	return decodeOne[Question](data)
}

// UpdateQuestion replaces the title, body and tags of an existing question.
func (c *Client) UpdateQuestion(id string, input QuestionInput) (*Question, error) {
	data, err := c.patch(fmt.Sprintf("/api/questions/%s", url.PathEscape(id)), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Question](data)
}
