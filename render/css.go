package render

import "fmt"

// articleCSS returns the article stylesheet with the tier accent color
// substituted into the root custom properties.
func articleCSS(tierColor string) string {
	return fmt.Sprintf(`
:root{--crimson:#c41e3a;--tier:%s;--bg:#f8fafc;--obsidian:#050814;--ink:#1a1a1a;--graphite:#333;--stone:#6b6b6b;--mist:#999;--cloud:#e5e5e5;--snow:#f1f5f9}
*{margin:0;padding:0;box-sizing:border-box}html{scroll-behavior:smooth}
body{font-family:'Crimson Text',Georgia,serif;background:var(--bg);color:var(--ink);line-height:1.75;font-size:18px;-webkit-font-smoothing:antialiased}
a{color:var(--crimson);text-decoration:none;font-weight:600}a:hover{text-decoration:underline}

/* Masthead */
.masthead{background:rgba(5,8,20,.97);backdrop-filter:blur(20px);padding:16px 40px;position:fixed;top:0;left:0;right:0;z-index:1000;display:flex;justify-content:space-between;align-items:center;border-bottom:1px solid rgba(255,255,255,.06)}
.logo{font-family:'Playfair Display',serif;font-size:24px;color:#fff}.logo span{color:var(--crimson)}
.masthead-right{display:flex;align-items:center;gap:16px}
.tier-badge{font-family:'Inter',sans-serif;font-size:10px;font-weight:700;text-transform:uppercase;letter-spacing:1.5px;background:var(--tier);color:#fff;padding:5px 14px;border-radius:2px}
.report-date{font-family:'Inter',sans-serif;font-size:11px;color:rgba(255,255,255,.5)}

/* Hero */
.hero{min-height:90vh;background:radial-gradient(ellipse at 20%% 50%%,#1e293b 0%%,#0f172a 30%%,var(--obsidian) 70%%);display:flex;align-items:center;padding:140px 40px 80px;position:relative;overflow:hidden}
.hero::after{content:"";position:absolute;top:0;right:0;width:50%%;height:100%%;background:radial-gradient(circle at 80%% 40%%,rgba(196,30,58,.08) 0%%,transparent 60%%)}
.hero-inner{max-width:820px;position:relative;z-index:1}
.hero-eyebrow{font-family:'Inter',sans-serif;font-size:10px;font-weight:700;text-transform:uppercase;letter-spacing:4px;color:var(--tier);margin-bottom:20px;display:flex;align-items:center;gap:12px}
.hero-eyebrow::before{content:"";width:32px;height:2px;background:var(--tier)}
.hero h1{font-family:'Playfair Display',serif;font-size:clamp(34px,5.5vw,56px);color:#fff;line-height:1.12;font-weight:700;margin-bottom:24px;letter-spacing:-.5px}
.hero-meta{font-family:'Inter',sans-serif;font-size:12px;color:rgba(255,255,255,.45);display:flex;gap:24px;flex-wrap:wrap;margin-bottom:28px}
.hero-meta span{display:flex;align-items:center;gap:6px}
.hero-summary{font-family:'Crimson Text',Georgia,serif;font-size:20px;color:rgba(255,255,255,.75);line-height:1.75;max-width:660px}
.hero-stats{display:grid;grid-template-columns:repeat(auto-fit,minmax(150px,1fr));gap:16px;margin-top:40px}
.metric{padding:24px;background:rgba(255,255,255,.03);border:1px solid rgba(255,255,255,.07);border-radius:8px;backdrop-filter:blur(10px)}
.mv{font-family:'Playfair Display',serif;font-size:32px;font-weight:700;color:var(--tier);line-height:1}
.ml{font-family:'Inter',sans-serif;font-size:9px;font-weight:600;text-transform:uppercase;letter-spacing:2px;color:rgba(255,255,255,.4);margin-top:6px}

/* Content */
.content{max-width:740px;margin:0 auto;padding:72px 24px}
.content h2{font-family:'Playfair Display',serif;font-size:30px;font-weight:400;margin:56px 0 20px;color:var(--ink);line-height:1.3}
.content p{margin-bottom:20px;font-size:18px;line-height:1.85;color:var(--graphite)}
.content blockquote{margin:32px 0;padding:24px 28px;border-left:4px solid var(--crimson);background:rgba(196,30,58,.03);border-radius:0 6px 6px 0;font-style:italic;font-size:18px;line-height:1.7;color:var(--graphite)}
.content blockquote cite{display:block;margin-top:12px;font-style:normal;font-family:'Inter',sans-serif;font-size:12px;font-weight:600;color:var(--crimson);letter-spacing:.5px}

/* Divider */
.section-break{max-width:740px;margin:0 auto;padding:0 24px}
.section-break-inner{display:flex;align-items:center;gap:16px;padding:40px 0}
.section-break-inner::before,.section-break-inner::after{content:"";flex:1;height:1px;background:var(--cloud)}
.section-break-label{font-family:'Inter',sans-serif;font-size:9px;font-weight:700;text-transform:uppercase;letter-spacing:3px;color:var(--mist)}

/* Paywall */
.paywall{max-width:740px;margin:0 auto;padding:20px 24px 48px;text-align:center}
.paywall-box{padding:56px 40px;background:linear-gradient(180deg,#fff,var(--bg));border:2px solid var(--cloud);border-radius:12px;position:relative;overflow:hidden}
.paywall-box::before{content:"";position:absolute;top:0;left:50%%;transform:translateX(-50%%);width:60px;height:3px;background:var(--crimson);border-radius:0 0 2px 2px}
.paywall-box h3{font-family:'Playfair Display',serif;font-size:26px;margin-bottom:10px;margin-top:12px}
.paywall-box p{font-family:'Inter',sans-serif;font-size:14px;color:var(--stone);margin-bottom:28px;max-width:420px;margin-left:auto;margin-right:auto;line-height:1.6}
.paywall-btn{display:inline-block;padding:16px 48px;background:var(--crimson);color:#fff;font-family:'Inter',sans-serif;font-size:11px;font-weight:700;text-transform:uppercase;letter-spacing:2.5px;border:none;border-radius:4px;cursor:pointer;transition:background .2s}
.paywall-btn:hover{background:#a01830;text-decoration:none}
.paywall-sub{font-family:'Inter',sans-serif;font-size:10px;color:var(--mist);margin-top:16px}

/* Paid Section */
.paid{max-width:740px;margin:0 auto;padding:0 24px 40px}
.paid-badge{font-family:'Inter',sans-serif;font-size:10px;font-weight:700;text-transform:uppercase;letter-spacing:2.5px;color:var(--crimson);padding:6px 14px;background:rgba(196,30,58,.05);border:1px solid rgba(196,30,58,.12);display:inline-block;border-radius:3px;margin-bottom:32px}
.paid h2{font-family:'Playfair Display',serif;font-size:26px;margin:40px 0 24px;color:var(--ink)}

/* Role Cards */
.role-card{background:#fff;border:1px solid var(--cloud);border-radius:8px;padding:28px;margin-bottom:16px;position:relative;overflow:hidden}
.role-card::before{content:"";position:absolute;top:0;left:0;bottom:0;width:4px;background:var(--tier)}
.role-top{display:flex;align-items:center;gap:20px;margin-bottom:16px;padding-left:12px}
.role-gauge{position:relative;flex-shrink:0}.role-gauge-val{position:absolute;top:50%%;left:50%%;transform:translate(-50%%,-50%%);font-family:'Playfair Display',serif;font-size:18px;font-weight:700;color:var(--ink)}
.role-title{font-family:'Inter',sans-serif;font-size:15px;font-weight:700;color:var(--ink)}
.role-risk{font-family:'Inter',sans-serif;font-size:10px;font-weight:600;text-transform:uppercase;letter-spacing:1.5px;margin-top:3px}
.role-impact{font-size:15px;line-height:1.75;color:var(--graphite);padding-left:12px;margin-bottom:16px}
.role-action{font-size:14px;line-height:1.65;color:var(--graphite);padding:14px 16px;background:var(--snow);border-radius:6px;margin-left:12px}
.task-section{padding-left:12px;margin-bottom:16px}
.task-header{font-family:'Inter',sans-serif;font-size:9px;font-weight:700;text-transform:uppercase;letter-spacing:2px;color:var(--mist);margin-bottom:10px}
.task-row{display:flex;align-items:center;gap:12px;margin-bottom:8px}
.task-name{font-family:'Inter',sans-serif;font-size:12px;color:var(--stone);width:180px;flex-shrink:0}
.task-bar-wrap{flex:1;height:6px;background:var(--cloud);border-radius:3px;overflow:hidden}
.task-bar{height:100%%;border-radius:3px;transition:width 1.5s ease}
.task-pct{font-family:'Inter',sans-serif;font-size:11px;font-weight:700;width:36px;text-align:right;color:var(--graphite)}

/* Sectors */
.sector-grid{display:grid;grid-template-columns:1fr 1fr;gap:10px;margin:20px 0}
.sector-row{padding:14px 18px;background:#fff;border:1px solid var(--cloud);border-radius:6px}
.sector-name{font-family:'Inter',sans-serif;font-size:12px;font-weight:700;color:var(--ink);margin-bottom:4px}
.sector-exp{font-size:13px;color:var(--stone);line-height:1.6}

/* Actions */
.action-item{display:flex;gap:14px;margin-bottom:14px;align-items:flex-start}
.action-num{width:28px;height:28px;background:var(--crimson);color:#fff;font-family:'Inter',sans-serif;font-size:12px;font-weight:700;display:flex;align-items:center;justify-content:center;border-radius:50%%;flex-shrink:0}
.action-text{font-size:15px;line-height:1.7;color:var(--graphite);padding-top:3px}

/* Enterprise */
.enterprise{max-width:740px;margin:0 auto;padding:0 24px 48px}
.enterprise-box{padding:28px;background:rgba(196,30,58,.02);border:1px solid rgba(196,30,58,.1);border-radius:8px}
.enterprise-box h4{font-family:'Inter',sans-serif;font-size:10px;font-weight:700;text-transform:uppercase;letter-spacing:2.5px;color:var(--crimson);margin-bottom:10px}
.enterprise-box p{font-size:14px;color:var(--graphite);line-height:1.75}

/* Methodology */
.methodology{max-width:740px;margin:0 auto;padding:0 24px 48px}
.methodology-box{padding:20px 24px;background:var(--snow);border:1px solid var(--cloud);border-radius:6px}
.methodology-box p{font-family:'Inter',sans-serif;font-size:11px;color:var(--stone);line-height:1.7}

/* CTA */
.cta{text-align:center;padding:72px 24px;background:var(--obsidian);position:relative}
.cta::before{content:"";position:absolute;top:0;left:50%%;transform:translateX(-50%%);width:60px;height:3px;background:var(--crimson)}
.cta h3{font-family:'Playfair Display',serif;font-size:28px;color:#fff;margin-bottom:10px}
.cta p{font-family:'Inter',sans-serif;font-size:14px;color:rgba(255,255,255,.5);margin-bottom:28px}
.cta a{display:inline-block;padding:16px 48px;background:var(--crimson);color:#fff;font-family:'Inter',sans-serif;font-size:11px;font-weight:700;text-transform:uppercase;letter-spacing:2.5px;border-radius:4px;text-decoration:none;transition:background .2s}
.cta a:hover{background:#a01830}

/* Footer */
.footer{padding:32px;text-align:center;background:var(--obsidian);border-top:1px solid rgba(255,255,255,.04)}
.footer-logo{font-family:'Playfair Display',serif;font-size:20px;color:#fff}.footer-logo span{color:var(--crimson)}
.footer-sub{font-family:'Inter',sans-serif;font-size:9px;text-transform:uppercase;letter-spacing:3px;color:rgba(255,255,255,.3);margin-top:6px}
.footer-links{margin-top:12px;font-family:'Inter',sans-serif;font-size:11px}.footer-links a{color:rgba(255,255,255,.4);margin:0 12px}

@media(max-width:640px){.hero{padding:110px 20px 60px}.hero h1{font-size:30px}.hero-stats{grid-template-columns:1fr 1fr}.content{padding:48px 16px}.masthead{padding:14px 16px}.role-top{flex-direction:column;align-items:flex-start}.task-name{width:120px}.sector-grid{grid-template-columns:1fr}}
`, tierColor)
}
