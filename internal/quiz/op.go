package quiz

// Op — вид асинхронной операции, за которой следит стор.
type Op string

const (
	OpUpload   Op = "upload"
	OpLoadQuiz Op = "load_quiz"
	OpSubmit   Op = "submit"
)

// OpStatus — состояние одной операции.
type OpStatus struct {
	Loading   bool
	Err       string
	RequestID string
}

type opState struct {
	OpStatus
	// seq растёт при каждой записи ошибки, по нему выбирается последняя ошибка.
	errSeq uint64
}
