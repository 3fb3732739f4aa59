package domain

// Queue holds pending videos in insertion order. It is not safe for concurrent use;
// the owning Room is serialized by its caller.
type Queue struct {
	list []Video
}

func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends the video and returns its 1-based position.
func (q *Queue) Enqueue(video Video) int {
	q.list = append(q.list, video)
	return len(q.list)
}

func (q *Queue) DequeueFront() (Video, bool) {
	if len(q.list) == 0 {
		return Video{}, false
	}

	video := q.list[0]
	q.list[0] = Video{}
	q.list = q.list[1:]
	if len(q.list) == 0 {
		q.list = nil
	}

	return video, true
}

func (q *Queue) Peek() (Video, bool) {
	if len(q.list) == 0 {
		return Video{}, false
	}

	return q.list[0], true
}

// List returns a copy; later queue mutations never show through it.
func (q *Queue) List() []Video {
	list := make([]Video, len(q.list))
	copy(list, q.list)
	return list
}

func (q *Queue) Len() int {
	return len(q.list)
}
