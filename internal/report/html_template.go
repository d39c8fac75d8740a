package report

const emailHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>TrendScan SEO – {{.Scope}}</title>
  <style>
    body {
      margin: 0;
      padding: 24px;
      background-color: #f1f5f9;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
      color: #0f172a;
      line-height: 1.5;
    }

    .container {
      max-width: 680px;
      margin: 0 auto;
      background: #ffffff;
      border-radius: 8px;
      border: 1px solid #e2e8f0;
      overflow: hidden;
    }

    .header {
      padding: 20px 24px;
      background: linear-gradient(135deg, #4f46e5 0%, #312e81 100%);
      color: #ffffff;
    }

    .scope {
      font-size: 22px;
      font-weight: 700;
      margin-bottom: 4px;
    }

    .subtitle {
      font-size: 13px;
      opacity: 0.85;
    }

    .section {
      padding: 16px 24px;
      border-top: 1px solid #f1f5f9;
    }

    .section-title {
      font-size: 11px;
      font-weight: 700;
      color: #64748b;
      text-transform: uppercase;
      letter-spacing: 0.1em;
      margin-bottom: 8px;
    }

    .topic-title {
      font-size: 16px;
      font-weight: 700;
      margin: 0 0 4px 0;
    }

    .meta {
      font-size: 12px;
      color: #64748b;
      margin-bottom: 8px;
    }

    .announcement {
      font-size: 13px;
      font-style: italic;
      color: #475569;
      margin-bottom: 8px;
    }

    .meta-grid {
      display: table;
      width: 100%;
      font-size: 13px;
    }

    .meta-row {
      display: table-row;
    }

    .meta-label {
      display: table-cell;
      padding: 3px 16px 3px 0;
      color: #64748b;
      white-space: nowrap;
      width: 140px;
    }

    .meta-value {
      display: table-cell;
      padding: 3px 0;
    }

    .badge {
      display: inline-block;
      padding: 1px 8px;
      font-size: 11px;
      border-radius: 9999px;
      border: 1px solid #e5e7eb;
      background: #f3f4f6;
      color: #1f2937;
    }

    .badge.high { background: #dcfce7; color: #166534; border-color: #bbf7d0; }
    .badge.medium { background: #fef9c3; color: #854d0e; border-color: #fef08a; }
    .badge.low { background: #dbeafe; color: #1e40af; border-color: #bfdbfe; }

    .keyword-tag {
      display: inline-block;
      padding: 1px 6px;
      margin: 2px 2px 0 0;
      font-size: 11px;
      background: #f1f5f9;
      color: #475569;
      border: 1px solid #e2e8f0;
      border-radius: 4px;
    }

    .summary {
      background: #312e81;
      color: #eef2ff;
    }

    .summary .section-title {
      color: #a5b4fc;
    }

    .summary ul {
      margin: 0 0 12px 0;
      padding-left: 20px;
      font-size: 14px;
    }

    .footer {
      padding: 16px 24px;
      font-size: 12px;
      color: #94a3b8;
      text-align: center;
      background: #f8fafc;
    }

    a {
      color: #4338ca;
      text-decoration: none;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <div class="scope">{{.Scope}}</div>
      <div class="subtitle">Найдено тем: {{len .Result.Topics}} · {{.GeneratedAt}}</div>
    </div>

    {{range $i, $t := .Result.Topics}}
    <div class="section topic">
      <div class="section-title">Тема {{inc $i}}</div>
      <p class="topic-title">{{if $t.Link}}<a href="{{$t.Link}}" target="_blank" rel="noopener">{{$t.Title}}</a>{{else}}{{$t.Title}}{{end}}</p>
      <div class="meta">{{$t.Source}} · {{$t.PublishDate}}</div>
      {{if $t.Announcement}}<div class="announcement">"{{$t.Announcement}}"</div>{{end}}
      <div class="meta-grid">
        <div class="meta-row">
          <div class="meta-label">Интент</div>
          <div class="meta-value">{{$t.SeoAnalysis.Intent}}</div>
        </div>
        <div class="meta-row">
          <div class="meta-label">Динамика</div>
          <div class="meta-value">{{$t.SeoAnalysis.Dynamics}}</div>
        </div>
        <div class="meta-row">
          <div class="meta-label">Конкурентность</div>
          <div class="meta-value"><span class="badge {{levelClass (print $t.SeoAnalysis.Competition)}}">{{$t.SeoAnalysis.Competition}}</span></div>
        </div>
        <div class="meta-row">
          <div class="meta-label">Потенциал трафика</div>
          <div class="meta-value"><span class="badge {{levelClass (print $t.SeoAnalysis.Potential)}}">{{$t.SeoAnalysis.Potential}}</span></div>
        </div>
        <div class="meta-row">
          <div class="meta-label">Боли</div>
          <div class="meta-value">{{$t.WhyAttractive.PainPoints}}</div>
        </div>
        <div class="meta-row">
          <div class="meta-label">Дискуссия</div>
          <div class="meta-value">{{$t.WhyAttractive.DiscussionPotential}}</div>
        </div>
        {{if $t.WhyAttractive.CommercialPotential}}
        <div class="meta-row">
          <div class="meta-label">Коммерция</div>
          <div class="meta-value">Есть коммерческий потенциал</div>
        </div>
        {{end}}
      </div>
      {{range $t.SeoAnalysis.Keywords}}<span class="keyword-tag">#{{.}}</span>{{end}}
    </div>
    {{end}}

    {{with .Result.Summary}}
    <div class="section summary">
      <div class="section-title">Доминирующие направления</div>
      <ul>{{range .DominantTrends}}<li>{{.}}</li>{{end}}</ul>
      <div class="section-title">Уровень конкуренции в нише</div>
      <p>{{.NicheCompetitionLevel}}</p>
      <div class="section-title">Темы с макс. SEO-потенциалом</div>
      <ul>{{range .MaxSeoPotentialTopics}}<li>{{.}}</li>{{end}}</ul>
      <div class="section-title">Рекомендация по приоритетам</div>
      <ul>{{range .PriorityRecommendations}}<li>{{.}}</li>{{end}}</ul>
    </div>
    {{end}}

    <div class="footer">
      Generated by TrendScan SEO with Gemini and Google Search grounding
    </div>
  </div>
</body>
</html>`
