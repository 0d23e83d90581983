package board

// Board is a bulletin post stored as a single document in the search
// index. BoardID is the logical identifier assigned on creation; the
// index keeps its own internal document key next to it.
type Board struct {
	BoardID  string    `json:"boardId,omitempty"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Writer   string    `json:"writer"`
	Password string    `json:"password,omitempty"`
	Comments []Comment `json:"comments"`
	Like     int64     `json:"like"`
	Dislike  int64     `json:"dislike"`
	Created  *int64    `json:"created"`
}

// Comment lives only embedded in its parent board's comments list and is
// removed together with the board.
type Comment struct {
	BoardID  string `json:"boardId"`
	Writer   string `json:"writer"`
	Password string `json:"password"`
	Content  string `json:"content"`
	Created  int64  `json:"created"`
}
