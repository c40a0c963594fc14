package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/datalens-ai/datalens/internal/dispatch"
	"github.com/datalens-ai/datalens/internal/normalize"
	"github.com/datalens-ai/datalens/internal/render"
	"github.com/datalens-ai/datalens/internal/result"
	"github.com/datalens-ai/datalens/internal/session"
	"github.com/datalens-ai/datalens/internal/utils"
)

const maxUploadBytes = 64 << 20

type indexView struct {
	Error        string
	Notice       string
	Providers    []providerView
	HasContent   bool
	Source       string
	SheetNames   []string
	PreviewTable template.HTML
	PreviewText  string
}

type providerView struct {
	Name   string
	Models []string
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	view := indexView{
		Error:      r.URL.Query().Get("err"),
		Notice:     r.URL.Query().Get("msg"),
		HasContent: sess.HasContent(),
		Source:     sess.Source,
		SheetNames: sess.SheetNames,
	}
	for _, p := range s.providers() {
		view.Providers = append(view.Providers, providerView{Name: p.Name, Models: p.Models})
	}
	if sess.Frame != nil {
		tbl, err := render.TableHTML(sess.Frame.Head(s.cfg.PreviewRows))
		if err != nil {
			s.logger.Error("render preview", "error", err)
		} else {
			view.PreviewTable = tbl
		}
	} else if sess.Text != "" {
		view.PreviewText = utils.Ellipsize(sess.Text, s.cfg.PreviewChars)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexPage.Execute(w, view); err != nil {
		s.logger.Error("render index", "error", err)
	}
}

// upload ingests a file with an explicitly declared type. Parse failures
// come back as an inline message where the preview would have been; the
// session keeps its prior state.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		redirectError(w, r, fmt.Sprintf("上传失败: %v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		redirectError(w, r, "请选择要上传的文件")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		redirectError(w, r, fmt.Sprintf("上传失败: %v", err))
		return
	}

	kind := r.FormValue("file_type")
	if _, ok := normalize.ByKind(kind); !ok {
		redirectError(w, r, fmt.Sprintf("不支持的文件类型: %s", kind))
		return
	}

	// Multi-sheet workbooks pause for an explicit sheet choice.
	if kind == normalize.KindXLSX {
		names, err := normalize.SheetNames(data)
		if err != nil {
			redirectError(w, r, err.Error())
			return
		}
		if len(names) > 1 {
			sess.SheetNames = names
			sess.Upload = data
			redirectNotice(w, r, "工作簿包含多个工作表，请选择")
			return
		}
	}

	content, err := normalize.Normalize(kind, data)
	if err != nil {
		redirectError(w, r, err.Error())
		return
	}
	s.install(sess, content, header.Filename)
	redirectNotice(w, r, fmt.Sprintf("已读取 %s", header.Filename))
}

// selectSheet completes a paused multi-sheet upload.
func (s *Server) selectSheet(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess.Upload == nil {
		redirectError(w, r, "没有待选择工作表的文件")
		return
	}
	sheet := r.FormValue("sheet")
	content, err := normalize.NormalizeXLSX(sess.Upload, sheet)
	if err != nil {
		redirectError(w, r, err.Error())
		return
	}
	source := fmt.Sprintf("%s (sheet: %s)", sess.Source, sheet)
	if sess.Source == "" {
		source = sheet
	}
	sess.SheetNames = nil
	sess.Upload = nil
	s.install(sess, content, source)
	redirectNotice(w, r, fmt.Sprintf("已读取工作表 %s", sheet))
}

// fetchURL ingests a remote resource. Markup pages with tables install the
// first extracted table as the session frame; everything else becomes
// text.
func (s *Server) fetchURL(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	address := strings.TrimSpace(r.FormValue("url"))
	if address == "" {
		redirectError(w, r, "请输入URL")
		return
	}

	res := s.fetcher.Fetch(r.Context(), address)
	if !res.OK() {
		redirectError(w, r, fmt.Sprintf("错误: %s", res.Err))
		return
	}

	switch {
	case len(res.Tables) > 0:
		sess.SetFrame(res.Tables[0].Frame, address)
		redirectNotice(w, r, fmt.Sprintf("成功从网页中提取了 %d 个表格", len(res.Tables)))
	case res.Text != "":
		sess.SetText(res.Text, address)
		redirectNotice(w, r, "已读取网页文本")
	default:
		sess.SetText(res.Content, address)
		redirectNotice(w, r, "已读取原始内容")
	}
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.SetText("", "")
	sess.Result = nil
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// analyze runs the pipeline: validation, dispatch, and a streamed results
// page. Agent failures surface as one user-visible message; the session
// survives for a retry.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	query := strings.TrimSpace(r.FormValue("query"))

	if err := validateRequest(sess, query); err != nil {
		redirectError(w, r, err.Error())
		return
	}

	svc := dispatch.New(nil, s.respCache, s.logger)
	var (
		res *result.Result
		err error
	)
	if sess.Frame != nil {
		ag, aerr := s.newAgent(r.FormValue("provider"), r.FormValue("model"), r.FormValue("api_key"))
		if aerr != nil {
			redirectError(w, r, aerr.Error())
			return
		}
		svc.Agent = ag
		res, err = svc.AnalyzeFrame(r.Context(), sess.Frame, query)
	} else {
		res, err = svc.AnalyzeText(r.Context(), sess.Text, query)
	}
	if err != nil {
		s.logger.Error("analysis failed", "error", err)
		redirectError(w, r, fmt.Sprintf("分析过程中发生错误: %v", err))
		return
	}

	sess.Result = res
	s.writeResults(w, res)
}

// validateRequest blocks the action before any pipeline work happens.
func validateRequest(sess *session.Session, query string) error {
	if !sess.HasContent() {
		return &result.ValidationError{Reason: "请先提供数据源"}
	}
	if query == "" {
		return &result.ValidationError{Reason: "请输入分析需求"}
	}
	return nil
}

// writeResults streams the results page: the narrative answer is paced
// token by token, then the remaining sections follow in fixed order.
func (s *Server) writeResults(w http.ResponseWriter, res *result.Result) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := resultsHead.Execute(w, nil); err != nil {
		s.logger.Error("render results head", "error", err)
		return
	}
	flusher, _ := w.(http.Flusher)

	if res.Answer != "" {
		fmt.Fprint(w, `<h2>分析结果</h2><div class="card" id="answer"></div>`+"\n")
		render.StreamAnswer(res.Answer, s.answerDelay, func(state string) {
			payload, _ := json.Marshal(state)
			fmt.Fprintf(w, `<script>document.getElementById("answer").textContent = %s;</script>`+"\n", payload)
			if flusher != nil {
				flusher.Flush()
			}
		})
	}
	if res.Table != nil {
		tbl, err := render.TableHTML(res.Table)
		if err != nil {
			s.logger.Error("render table", "error", err)
		} else {
			fmt.Fprintf(w, "<h2>数据表格</h2>\n%s\n", tbl)
		}
	}
	if res.Bar != nil {
		fmt.Fprint(w, `<h2>柱状图</h2><iframe class="chart" src="/charts/bar"></iframe>`+"\n")
	}
	if res.Line != nil {
		fmt.Fprint(w, `<h2>折线图</h2><iframe class="chart" src="/charts/line"></iframe>`+"\n")
	}
	fmt.Fprint(w, "</body></html>")
}

// chart serves the bar/line chart of the latest analysis as a standalone
// page, embedded by the results view.
func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess.Result == nil {
		http.NotFound(w, r)
		return
	}
	kind := chi.URLParam(r, "kind")
	switch kind {
	case "bar":
		if sess.Result.Bar == nil {
			http.NotFound(w, r)
			return
		}
		chart, err := render.Bar(sess.Result.Bar)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		_ = chart.Render(w)
	case "line":
		if sess.Result.Line == nil {
			http.NotFound(w, r)
			return
		}
		chart, err := render.Line(sess.Result.Line)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		_ = chart.Render(w)
	default:
		http.NotFound(w, r)
	}
}

// install places normalized content into the session.
func (s *Server) install(sess *session.Session, content normalize.Content, source string) {
	if content.IsTabular() {
		sess.SetFrame(content.Frame, source)
	} else {
		sess.SetText(content.Text, source)
	}
}

func redirectError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/?err="+url.QueryEscape(msg), http.StatusSeeOther)
}

func redirectNotice(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}
