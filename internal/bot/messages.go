package bot

const msgHelp = `I turn GATE question papers into interactive quizzes.

<b>How it works</b>
1) Send the questions PDF.
2) Send the answer key PDF.
3) Press <b>Generate Quiz</b> and answer the questions.
4) Submit and review your answers.

<b>Commands</b>
/upload - start over with new PDFs
/quiz &lt;session id&gt; - open an existing quiz session
/hint - hint for the current question
/submit - submit the quiz
/theme - switch between light and dark theme`

const msgUploadTitle = `<b>GATE Quiz Generator</b>`

const msgUploadPrompt = `Send the questions PDF first, then the answer key PDF.`

const msgSendAnswerKey = `Now send the answer key PDF.`

const msgBothSelected = `Both files are selected. Press Generate Quiz or Clear.`

const msgOnlyPDF = `Only PDF files are allowed`

const msgProcessing = `⏳ Processing PDFs...`

const msgLoadingQuiz = `⏳ Loading quiz...`

const msgSubmitting = `⏳ Submitting...`

const msgGeneratingHint = `Generating hint...`

const msgNoQuestions = `No questions found in this quiz.`

const msgNotANumber = `Not a valid number, your previous answer was kept.`

const msgNumberTooLarge = `Number is too large, your previous answer was kept.`

const msgUseButtons = `Use the buttons to choose an option.`

const msgConfirmSubmit = `You have answered %d out of %d questions. Are you sure you want to submit?`

const msgQuestionNotFound = `Question not found`

const msgNoResult = `No result yet. Submit the quiz first.`

const msgForbidden = `Sorry, this bot is private.`

const msgUnknownCommand = `Unknown command. Send /help to see what I can do.`

const msgQuizUsage = `Usage: /quiz &lt;session id&gt;`

const msgThemeChanged = `Theme: %s`

// Сообщения об ошибках по умолчанию, если бэкенд не прислал detail.
const (
	errSelectBoth    = `Please select both PDF files`
	errUploadFailed  = `Failed to process PDFs`
	errLoadFailed    = `Failed to load quiz`
	errSubmitFailed  = `Failed to submit quiz`
	errHintFailed    = `Failed to get hint`
	errDownloadFiles = `Failed to download the PDF from Telegram`
)

// Подписи кнопок
const (
	btnGenerate    = "🚀 Generate Quiz"
	btnClear       = "🗑 Clear"
	btnPrev        = "◀ Previous"
	btnNext        = "Next ▶"
	btnSubmit      = "📤 Submit Quiz"
	btnSubmitNow   = "Submit quiz now"
	btnShowAll     = "Show all"
	btnHideAll     = "Hide all"
	btnGetHint     = "Get Hint"
	btnShowHint    = "Show Hint"
	btnHideHint    = "Hide Hint"
	btnConfirm     = "✅ Yes, submit"
	btnCancel      = "Cancel"
	btnReview      = "👁 Review Answers"
	btnRetake      = "🔄 Retake Quiz"
	btnSummary     = "📊 Back to summary"
	btnBackUpload  = "Go back to upload"
	btnToggleTheme = "Theme"
)
