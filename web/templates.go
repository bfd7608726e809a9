package web

import (
	"html/template"

	"github.com/amonks/taskboard/task"
)

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"formatStamp": formatStamp,
		"repeats":     func(r task.Recurrence) bool { return r.Repeats() },
	}
	return template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
}

func formatStamp(stamp *task.Stamp) string {
	if stamp == nil {
		return "-"
	}
	value, ok := stamp.Time()
	if !ok {
		return string(*stamp)
	}
	return value.Format("2006-01-02 15:04")
}

const pageTemplate = `{{define "taskTable"}}
  <table class="tasks">
    <thead>
      <tr><th>#</th><th>Task</th><th>Due</th><th>Priority</th><th></th></tr>
    </thead>
    <tbody>
      {{range .}}
        <tr class="{{if .Completed}}done{{end}}">
          <td class="muted">{{.Index}}</td>
          <td>
            <span class="item-title">{{.Title}}{{if repeats .Recurrence}} <span class="muted">({{.Recurrence}})</span>{{end}}</span>
            {{if .Description}}<span class="item-meta">{{.Description}}</span>{{end}}
            {{if .DaysUntilPermanent}}<span class="item-meta">purged in {{.DaysUntilPermanent}} day(s)</span>{{end}}
          </td>
          <td>{{.Due}}</td>
          <td><span class="badge {{.Color}}">{{.Priority}}</span></td>
          <td class="row-actions">
            {{if .Deleted}}
              <button data-action="restore" data-ref="{{.ID}}">Restore</button>
              <button class="danger" data-action="permanent-delete" data-ref="{{.ID}}" data-confirm="Delete forever?">Delete forever</button>
            {{else}}
              <button data-action="complete" data-ref="{{.ID}}">{{if .Completed}}Undo{{else}}Complete{{end}}</button>
              <a class="button-link" href="/edit/{{.ID}}">Edit</a>
              {{if .Saved}}
                <button data-action="unsave" data-ref="{{.ID}}">Unsave</button>
              {{else}}
                <button data-action="save" data-ref="{{.ID}}">Save</button>
              {{end}}
              <button data-assist="{{.Index}}">Plan</button>
              <button class="danger" data-action="delete" data-ref="{{.ID}}">Delete</button>
            {{end}}
          </td>
        </tr>
      {{else}}
        <tr><td colspan="5" class="muted">No tasks.</td></tr>
      {{end}}
    </tbody>
  </table>
{{end}}
{{- define "sortForm"}}
  <form class="sort" method="get">
    <select name="sort" onchange="this.form.submit()">
      {{range .SortOptions}}
        <option value="{{.Value}}" {{if eq .Value (print $.Sort)}}selected{{end}}>{{.Label}}</option>
      {{end}}
    </select>
  </form>
{{end -}}
<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Tasks · {{.Title}}</title>
  <style>
    :root {
      color-scheme: light;
    }
    body {
      margin: 0;
      font-family: "Charter", "Georgia", serif;
      color: #2b2520;
      background: radial-gradient(circle at top left, #f4efe3 0%, #fcfaf6 55%, #f6f2e8 100%);
    }
    header {
      padding: 16px 24px;
      border-bottom: 1px solid #d7cdbd;
      background: rgba(255, 255, 255, 0.72);
      backdrop-filter: blur(6px);
    }
    header h1 {
      margin: 0 0 8px 0;
      font-size: 20px;
      letter-spacing: 0.02em;
    }
    .tabs {
      display: flex;
      flex-wrap: wrap;
      gap: 12px;
      align-items: center;
    }
    .tab {
      padding: 8px 14px;
      border-radius: 999px;
      text-decoration: none;
      color: #5b5148;
      border: 1px solid transparent;
    }
    .tab.active {
      color: #1d1712;
      border-color: #d1c6b6;
      background: #f5efe4;
      font-weight: 600;
    }
    main {
      padding: 18px 24px 28px;
    }
    .pane {
      background: #ffffff;
      border: 1px solid #d7cdbd;
      border-radius: 14px;
      box-shadow: 0 8px 24px rgba(60, 45, 30, 0.08);
      padding: 16px 20px;
      margin-bottom: 18px;
    }
    .pane-header {
      display: flex;
      justify-content: space-between;
      align-items: center;
      gap: 12px;
    }
    .stats {
      display: flex;
      gap: 18px;
      color: #72685f;
      font-size: 14px;
    }
    table.tasks {
      width: 100%;
      border-collapse: collapse;
    }
    table.tasks th {
      text-align: left;
      font-size: 12px;
      color: #72685f;
      border-bottom: 1px solid #e0d6c6;
      padding: 6px 8px;
    }
    table.tasks td {
      padding: 8px;
      border-bottom: 1px solid #f0e8dc;
      vertical-align: top;
    }
    tr.done .item-title {
      text-decoration: line-through;
      color: #72685f;
    }
    .item-title {
      font-weight: 600;
      display: block;
    }
    .item-meta {
      color: #72685f;
      font-size: 12px;
      display: block;
    }
    .badge {
      padding: 2px 8px;
      border-radius: 999px;
      font-size: 12px;
      font-weight: 600;
    }
    .badge.danger { background: #f4d7d2; color: #7a1f16; }
    .badge.warning { background: #f8e3c4; color: #7a4a0c; }
    .badge.info { background: #d9e6f5; color: #1d3f66; }
    .badge.success { background: #dcefd8; color: #24531b; }
    .badge.secondary { background: #ece7df; color: #5b5148; }
    .row-actions {
      display: flex;
      flex-wrap: wrap;
      gap: 6px;
    }
    .button-link {
      display: inline-block;
      padding: 6px 12px;
      border-radius: 8px;
      border: 1px solid #cbbfae;
      background: #f7f2e8;
      text-decoration: none;
      color: #2b2520;
      font-size: 14px;
    }
    .field {
      display: flex;
      flex-direction: column;
      gap: 6px;
      margin-bottom: 12px;
    }
    input[type="text"],
    select,
    textarea {
      width: 100%;
      padding: 8px 10px;
      border-radius: 8px;
      border: 1px solid #cbbfae;
      font-family: inherit;
      font-size: 14px;
      background: #fffdf9;
      box-sizing: border-box;
    }
    form.sort select {
      width: auto;
    }
    textarea {
      min-height: 120px;
      resize: vertical;
    }
    .actions {
      display: flex;
      flex-wrap: wrap;
      gap: 10px;
      margin-top: 16px;
    }
    button {
      padding: 6px 12px;
      border-radius: 8px;
      border: 1px solid #bfb3a2;
      background: #efe6d7;
      font-family: inherit;
      cursor: pointer;
    }
    button.danger {
      background: #f4d7d2;
      border-color: #d7a7a1;
    }
    .error {
      padding: 10px 12px;
      border-radius: 8px;
      background: #f7d9d6;
      border: 1px solid #d9a7a2;
      margin-bottom: 12px;
      color: #5b1d17;
    }
    .muted {
      color: #72685f;
    }
    .plan {
      background: #fcf8f1;
      border: 1px solid #e0d6c6;
      border-radius: 8px;
      padding: 12px;
      white-space: pre-wrap;
      font-family: "Menlo", "Consolas", monospace;
      font-size: 13px;
    }
  </style>
</head>
<body>
  <header>
    <h1>Tasks</h1>
    <nav class="tabs">
      <a class="tab {{if eq .Tab "dashboard"}}active{{end}}" href="/">Dashboard</a>
      <a class="tab {{if eq .Tab "pending"}}active{{end}}" href="/pending">Pending</a>
      <a class="tab {{if eq .Tab "overdue"}}active{{end}}" href="/overdue">Overdue</a>
      <a class="tab {{if eq .Tab "completed"}}active{{end}}" href="/completed">Completed</a>
      <a class="tab {{if eq .Tab "saved"}}active{{end}}" href="/saved">Saved</a>
      <a class="tab {{if eq .Tab "deleted"}}active{{end}}" href="/deleted">Deleted</a>
      <a class="tab {{if eq .Tab "add"}}active{{end}}" href="/add">Add</a>
      <form method="get" action="/search">
        <input type="text" name="q" value="{{.Query}}" placeholder="Search">
      </form>
    </nav>
  </header>
  <main>
    {{if eq .Page "dashboard"}}
      <section class="pane">
        <div class="pane-header">
          <div class="stats">
            <span>{{.Dashboard.Total}} active</span>
            <span>{{len .Dashboard.Overdue}} overdue</span>
            <span>{{.Dashboard.SavedCount}} saved</span>
            <span>{{.Dashboard.DeletedCount}} deleted</span>
          </div>
          {{template "sortForm" .}}
        </div>
      </section>
      <section class="pane">
        <h2>Overdue</h2>
        {{template "taskTable" .Dashboard.Overdue}}
      </section>
      <section class="pane">
        <h2>Pending</h2>
        {{template "taskTable" .Dashboard.Pending}}
      </section>
      <section class="pane">
        <h2>Completed</h2>
        {{template "taskTable" .Dashboard.Completed}}
      </section>
    {{else if eq .Page "list"}}
      <section class="pane">
        <div class="pane-header">
          <h2>{{.Title}}</h2>
          {{template "sortForm" .}}
        </div>
        {{template "taskTable" .Items}}
      </section>
    {{else if eq .Page "search"}}
      <section class="pane">
        <h2>Search{{if .Query}}: {{.Query}}{{end}}</h2>
        {{template "taskTable" .Items}}
      </section>
    {{else if eq .Page "form"}}
      <section class="pane">
        <h2>{{.Title}}</h2>
        {{if .Error}}<div class="error">{{.Error}}</div>{{end}}
        <form method="post" action="{{if .EditRef}}/edit/{{.EditRef}}{{else}}/add{{end}}">
          <div class="field">
            <label for="task-title">Task</label>
            <input id="task-title" type="text" name="task" value="{{.Form.Title}}" required>
          </div>
          <div class="field">
            <label for="task-due">Due (mm/dd/yyyy)</label>
            <input id="task-due" type="text" name="due" value="{{.Form.Due}}" placeholder="mm/dd/yyyy" required>
          </div>
          <div class="field">
            <label for="task-recurrence">Repeat</label>
            <select id="task-recurrence" name="recurrence">
              {{range .RecurrenceOptions}}
                <option value="{{.Value}}" {{if eq .Value $.Form.Recurrence}}selected{{end}}>{{.Label}}</option>
              {{end}}
            </select>
          </div>
          <div class="field">
            <label for="task-description">Description</label>
            <textarea id="task-description" name="description">{{.Form.Description}}</textarea>
          </div>
          <div class="actions">
            <button type="submit">{{if .EditRef}}Save changes{{else}}Add task{{end}}</button>
          </div>
        </form>
      </section>
    {{end}}
    <pre class="plan" id="plan" hidden></pre>
  </main>
  <script>
    document.addEventListener("click", async (event) => {
      const button = event.target.closest("button");
      if (!button) return;
      if (button.dataset.action) {
        if (button.dataset.confirm && !confirm(button.dataset.confirm)) return;
        const response = await fetch("/" + button.dataset.action + "/" + button.dataset.ref, {method: "POST"});
        const body = await response.json();
        if (!body.success) alert(body.error || "Request failed");
        location.reload();
      } else if (button.dataset.assist) {
        const response = await fetch("/assist?idx=" + button.dataset.assist);
        const body = await response.json();
        const plan = document.getElementById("plan");
        plan.hidden = false;
        plan.textContent = body.success
          ? body.title + "\n" + body.breakdown.map((s) => "- " + s.step + " (by " + s.due_by + ", ~" + s.est_minutes + "m)").join("\n")
          : body.error;
      }
    });
  </script>
</body>
</html>
`
