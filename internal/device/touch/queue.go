package touch

import "sync"

// Queue is a Source fed by tap callbacks from another goroutine, such as a
// desktop UI. Each queued tap is reported as one press followed by one
// release so edge detection in the poll loop sees every tap.
type Queue struct {
	mu       sync.Mutex
	points   []Point
	limit    int
	released bool
}

// NewQueue creates a Queue holding at most limit pending taps.
func NewQueue(limit int) *Queue {
	if limit <= 0 {
		limit = 8
	}
	return &Queue{limit: limit, released: true}
}

// Push enqueues a tap, dropping the oldest one when full.
func (queue *Queue) Push(point Point) {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	if len(queue.points) >= queue.limit {
		queue.points = queue.points[1:]
	}
	queue.points = append(queue.points, point)
}

// Touch implements Source.
func (queue *Queue) Touch() (Point, bool, error) {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	if !queue.released {
		queue.released = true
		return Point{}, false, nil
	}
	if len(queue.points) == 0 {
		return Point{}, false, nil
	}
	point := queue.points[0]
	queue.points = queue.points[1:]
	queue.released = false
	return point, true, nil
}
