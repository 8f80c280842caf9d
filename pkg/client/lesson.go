package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"lessonbook/pkg/model"
)

// LessonClient is a thin Go client for the lessons API, including the
// conflicts endpoint used for check-before-submit probing.
type LessonClient struct {
	httpClient *HttpClient
}

func NewLessonClient(baseURL string) *LessonClient {
	return &LessonClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *LessonClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/lessons", body)
}

func (c *LessonClient) List(filter *model.LessonFilter, limit int, offset int64) (*Response, error) {
	q := url.Values{}

	if filter != nil {
		if filter.Teacher != "" {
			q.Set("teacher", filter.Teacher)
		}
		if filter.Classroom != "" {
			q.Set("classroom", filter.Classroom)
		}
		if filter.Date != nil {
			// The server filters by calendar day, not by instant.
			q.Set("date", filter.Date.Format("2006-01-02"))
		}
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.FormatInt(offset, 10))

	return c.httpClient.GET("/api/v1/lessons?" + q.Encode())
}

func (c *LessonClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET("/api/v1/lessons/id/" + url.PathEscape(id))
}

func (c *LessonClient) Update(id string, body any) (*Response, error) {
	return c.httpClient.PATCH("/api/v1/lessons/id/"+url.PathEscape(id), body)
}

func (c *LessonClient) Delete(id string) (*Response, error) {
	return c.httpClient.DELETE("/api/v1/lessons/id/" + url.PathEscape(id))
}

// Conflicts asks the server which existing lessons would clash with a
// hypothetical (classroom, start, duration) slot. excludeID may be
// empty.
func (c *LessonClient) Conflicts(classroom string, scheduledTime time.Time, durationMinutes int, excludeID string) (*Response, error) {
	q := url.Values{}
	q.Set("classroom", classroom)
	q.Set("scheduled_time", scheduledTime.Format(time.RFC3339))
	q.Set("duration_minutes", strconv.Itoa(durationMinutes))
	if excludeID != "" {
		q.Set("exclude_id", excludeID)
	}

	return c.httpClient.GET("/api/v1/lessons/conflicts?" + q.Encode())
}

func (c *LessonClient) DecodeLesson(resp *Response) (*model.Lesson, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode lesson wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var lesson model.Lesson
	if err := json.Unmarshal(wrapper.Data, &lesson); err != nil {
		return nil, fmt.Errorf("could not decode lesson json:\n%+v\n%s", resp.ToString(), err)
	}

	return &lesson, nil
}

func (c *LessonClient) DecodeLessons(resp *Response) ([]*model.Lesson, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var lessons []*model.Lesson
	if err := json.Unmarshal(wrapper.Data, &lessons); err != nil {
		return nil, nil, fmt.Errorf("could not decode lesson list:\n%+v\n%s", resp.ToString(), err)
	}

	metadata := &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}

	return lessons, metadata, nil
}

func (c *LessonClient) DecodeDeleted(resp *Response) (bool, error) {
	var wrapper struct {
		Data struct {
			Deleted bool `json:"deleted"`
		} `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return false, fmt.Errorf("could not decode delete resp:\n%+v\n%s", resp.ToString(), err)
	}

	return wrapper.Data.Deleted, nil
}
